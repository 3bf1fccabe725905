package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/actorkit/actor"
)

type action string

const (
	actionLeft     action = "left"
	actionRight    action = "right"
	actionJump     action = "jump"
	actionPause    action = "pause"
	actionSave     action = "save"
	actionLoad     action = "load"
	actionRevive   action = "revive"
	actionSnapshot action = "snapshot"
)

// bindings maps each action to the keys that trigger it.
type bindings map[action][]ebiten.Key

func defaultBindings() bindings {
	return bindings{
		actionLeft:     {ebiten.KeyA, ebiten.KeyArrowLeft},
		actionRight:    {ebiten.KeyD, ebiten.KeyArrowRight},
		actionJump:     {ebiten.KeySpace, ebiten.KeyW, ebiten.KeyArrowUp},
		actionPause:    {ebiten.KeyEscape},
		actionSave:     {ebiten.KeyF5},
		actionLoad:     {ebiten.KeyF9},
		actionRevive:   {ebiten.KeyR},
		actionSnapshot: {ebiten.KeyF6},
	}
}

// withOverrides returns a copy of b with the saved overrides applied. Each
// override is a comma separated list of ebiten key names, e.g. "K,Enter".
func (b bindings) withOverrides(overrides map[string]string) (bindings, error) {
	out := make(bindings, len(b))
	for a, keys := range b {
		out[a] = append([]ebiten.Key(nil), keys...)
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a := action(name)
		if _, ok := b[a]; !ok {
			return b, fmt.Errorf("bindings: unknown action %q", name)
		}
		var keys []ebiten.Key
		for _, part := range strings.Split(overrides[name], ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			var k ebiten.Key
			if err := k.UnmarshalText([]byte(part)); err != nil {
				return b, fmt.Errorf("bindings: %s: %w", name, err)
			}
			keys = append(keys, k)
		}
		if len(keys) == 0 {
			return b, fmt.Errorf("bindings: %s has no keys", name)
		}
		out[a] = keys
	}
	return out, nil
}

func (b bindings) pressed(a action) bool {
	for _, k := range b[a] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func (b bindings) justPressed(a action) bool {
	for _, k := range b[a] {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// readInput copies this frame's keyboard state into the player's input.
func readInput(in *actor.InputState, b bindings) {
	if in == nil {
		return
	}
	move := 0.0
	if b.pressed(actionLeft) {
		move--
	}
	if b.pressed(actionRight) {
		move++
	}
	in.MoveX = move

	switch {
	case b.justPressed(actionJump):
		in.PressJump()
	case !b.pressed(actionJump):
		in.ReleaseJump()
	}
}
