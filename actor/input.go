package actor

import "github.com/milk9111/actorkit/common"

// Input is what a controller reads each tick.
type Input interface {
	// Move is the horizontal axis in [-1, 1].
	Move() float64
	// JumpPressed is true only on the tick the button went down.
	JumpPressed() bool
	JumpHeld() bool
}

// InputState is a plain Input that devices, scripts and tests write into.
type InputState struct {
	MoveX    float64 `yaml:"move_x"`
	Jump     bool    `yaml:"jump"`
	JumpDown bool    `yaml:"jump_down"`
}

func (s *InputState) Move() float64 {
	if s == nil {
		return 0
	}
	return s.MoveX
}

func (s *InputState) JumpPressed() bool {
	return s != nil && s.JumpDown
}

func (s *InputState) JumpHeld() bool {
	return s != nil && s.Jump
}

// PressJump marks the jump button as pressed this tick and held.
func (s *InputState) PressJump() {
	if s == nil {
		return
	}
	s.Jump = true
	s.JumpDown = true
}

func (s *InputState) ReleaseJump() {
	if s == nil {
		return
	}
	s.Jump = false
	s.JumpDown = false
}

// EndTick clears edge-triggered flags.
func (s *InputState) EndTick() {
	if s == nil {
		return
	}
	s.JumpDown = false
}

// BufferedAction remembers a press for Window seconds so it can be honoured
// once it becomes valid.
type BufferedAction struct {
	Window  float64
	pressed bool
	since   float64
}

func NewBufferedAction(window float64) *BufferedAction {
	return &BufferedAction{Window: window}
}

func (b *BufferedAction) Press() {
	if b == nil {
		return
	}
	b.pressed = true
	b.since = 0
}

func (b *BufferedAction) Tick(dt float64) {
	if b == nil || !b.pressed {
		return
	}
	b.since += dt
	if b.since > b.Window+common.Epsilon {
		b.pressed = false
	}
}

// IsBuffered reports a press made no more than Window seconds ago.
func (b *BufferedAction) IsBuffered() bool {
	return b != nil && b.pressed && b.since <= b.Window+common.Epsilon
}

func (b *BufferedAction) Clear() {
	if b == nil {
		return
	}
	b.pressed = false
	b.since = 0
}
