// Package sim runs a level: it owns the ECS world, the physics space and the
// system schedule, and connects save spots and deaths to the save store.
package sim

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/config"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
	"github.com/milk9111/actorkit/ecs/entity"
	"github.com/milk9111/actorkit/ecs/system"
	"github.com/milk9111/actorkit/levels"
	"github.com/milk9111/actorkit/physics"
	"github.com/milk9111/actorkit/prefabs"
	"github.com/milk9111/actorkit/save"
)

var ErrNoPlayer = errors.New("sim: no player in level")

type Simulation struct {
	cfg   *config.Config
	store *save.Store

	profile string

	world     *ecs.World
	physics   *physics.World
	scheduler *ecs.Scheduler
	scripts   *system.ScriptSystem

	level     *levels.Level
	levelName string
	ticks     uint64

	died  []func(system.DiedEvent)
	saved []func(save.SaveData)
}

// New prepares a simulation. A nil store keeps saves in memory. No level is
// loaded until LoadLevel.
func New(cfg *config.Config, store *save.Store) *Simulation {
	if cfg == nil {
		cfg = config.Default()
	}
	if store == nil {
		store = save.NewStore(nil)
	}
	prefabs.SetDir(cfg.Sim.PrefabDir)
	s := &Simulation{cfg: cfg, store: store, profile: cfg.Save.Profile}
	s.use(s.newStage())
	return s
}

// stage is a fully built run that has not replaced the current one yet.
type stage struct {
	world     *ecs.World
	physics   *physics.World
	scheduler *ecs.Scheduler
	scripts   *system.ScriptSystem
}

func (s *Simulation) newStage() stage {
	pw := physics.NewWorld(cp.Vector{Y: s.cfg.Sim.Gravity})
	spawn := func(w *ecs.World, prefab string, pos cp.Vector, facing int) (ecs.Entity, error) {
		return entity.BuildEntity(w, pw, prefab, entity.Options{Position: pos, Facing: facing})
	}
	scripts := system.NewScriptSystem(pw)
	return stage{
		world:   ecs.NewWorld(),
		physics: pw,
		scripts: scripts,
		scheduler: ecs.NewScheduler(
			system.NewGroundSystem(),
			scripts,
			system.NewControlSystem(),
			system.NewLocomotionSystem(),
			system.NewHealthSystem(),
			system.NewPhysicsSystem(pw),
			system.NewContactSystem(pw),
			system.NewDeathSystem(pw, spawn),
			system.NewTTLSystem(pw),
		),
	}
}

func (s *Simulation) use(st stage) {
	s.world = st.world
	s.physics = st.physics
	s.scheduler = st.scheduler
	s.scripts = st.scripts
	s.ticks = 0
}

// LoadLevel replaces the running level. Entities that fail to build are
// logged and skipped. A level that comes up without a player is an error and
// leaves the running level untouched.
func (s *Simulation) LoadLevel(name string) error {
	lvl, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	levelName := strings.TrimSuffix(name, ".json")

	st := s.newStage()
	if _, err := entity.LoadLevelToWorld(st.world, st.physics, lvl); err != nil {
		log.Printf("sim: level %s: %v", levelName, err)
	}
	if _, ok := ecs.First(st.world, component.PlayerTagComponent.Kind()); !ok {
		return fmt.Errorf("%w %s", ErrNoPlayer, levelName)
	}
	s.use(st)
	s.level = lvl
	s.levelName = levelName
	log.Printf("sim: loaded level %s", s.levelName)
	return nil
}

// Step advances one fixed tick.
func (s *Simulation) Step() {
	s.StepDT(s.cfg.Step())
}

func (s *Simulation) StepDT(dt float64) {
	s.scheduler.Update(s.world, dt)
	s.ticks++

	for _, evt := range s.world.Events().Drain() {
		switch evt.Type {
		case system.EventSave:
			if err := s.Save(); err != nil {
				log.Printf("sim: save spot: %v", err)
			}
		case system.EventDied:
			died, ok := evt.Data.(system.DiedEvent)
			if !ok {
				continue
			}
			name := ""
			if p, ok := ecs.Get(s.world, died.Entity, component.PrefabComponent.Kind()); ok {
				name = p.Name
			}
			log.Printf("sim: %s %s died at (%.2f, %.2f)", name, died.Entity, died.Died.Position.X, died.Died.Position.Y)
			for _, fn := range s.died {
				fn(died)
			}
		}
	}
}

func (s *Simulation) World() *ecs.World         { return s.world }
func (s *Simulation) Physics() *physics.World   { return s.physics }
func (s *Simulation) Level() *levels.Level      { return s.level }
func (s *Simulation) LevelName() string         { return s.levelName }
func (s *Simulation) Ticks() uint64             { return s.ticks }
func (s *Simulation) Config() *config.Config    { return s.cfg }
func (s *Simulation) Scheduler() *ecs.Scheduler { return s.scheduler }
func (s *Simulation) Profile() string           { return s.profile }
func (s *Simulation) Store() *save.Store        { return s.store }

func (s *Simulation) SetProfile(id string) {
	s.profile = id
}

// OnDied is called for every death after the step it happened in.
func (s *Simulation) OnDied(fn func(system.DiedEvent)) {
	s.died = append(s.died, fn)
}

// OnSaved is called after every successful save.
func (s *Simulation) OnSaved(fn func(save.SaveData)) {
	s.saved = append(s.saved, fn)
}

func (s *Simulation) playerEntity() (ecs.Entity, bool) {
	if s.world == nil {
		return 0, false
	}
	return ecs.First(s.world, component.PlayerTagComponent.Kind())
}

// Player returns the player entity and its actor.
func (s *Simulation) Player() (ecs.Entity, *actor.Actor, bool) {
	e, ok := s.playerEntity()
	if !ok {
		return 0, nil, false
	}
	a, ok := ecs.Get(s.world, e, component.ActorComponent.Kind())
	return e, a, ok
}

func (s *Simulation) Controller() *actor.Controller {
	e, ok := s.playerEntity()
	if !ok {
		return nil
	}
	c, _ := ecs.Get(s.world, e, component.ControllerComponent.Kind())
	return c
}

// Input is the player's input state. It is nil without a player, which is
// still safe to write through.
func (s *Simulation) Input() *actor.InputState {
	e, ok := s.playerEntity()
	if !ok {
		return nil
	}
	in, _ := ecs.Get(s.world, e, component.InputComponent.Kind())
	return in
}

// Snapshot captures what a save stores about the current run.
func (s *Simulation) Snapshot() (save.SaveData, error) {
	_, a, ok := s.Player()
	if !ok {
		return save.SaveData{}, ErrNoPlayer
	}
	data := save.DefaultSaveData()
	if s.profile != "" {
		if prev, err := s.store.Load(s.profile); err == nil {
			data = prev
		}
	}
	data.Scene = s.levelName
	data.Player = a.Snapshot()
	return data, nil
}

// Save writes the player to the active profile, creating one when none is
// selected.
func (s *Simulation) Save() error {
	data, err := s.Snapshot()
	if err != nil {
		return err
	}
	if s.profile == "" {
		p, err := s.store.NewProfile("")
		if err != nil {
			return fmt.Errorf("sim: save: %w", err)
		}
		s.profile = p.ID
	}
	if err := s.store.Save(s.profile, data); err != nil {
		return fmt.Errorf("sim: save: %w", err)
	}
	saved, err := s.store.Load(s.profile)
	if err != nil {
		return fmt.Errorf("sim: save: %w", err)
	}
	log.Printf("sim: saved profile %s at (%.2f, %.2f)", s.profile, saved.Player.X, saved.Player.Y)
	for _, fn := range s.saved {
		fn(saved)
	}
	return nil
}

// Load restores the active profile, switching level first when the save was
// made elsewhere.
func (s *Simulation) Load() error {
	if s.profile == "" {
		return fmt.Errorf("sim: load: %w", save.ErrProfileNotFound)
	}
	data, err := s.store.Load(s.profile)
	if err != nil {
		return fmt.Errorf("sim: load: %w", err)
	}
	if data.Scene != "" && data.Scene != s.levelName {
		if err := s.LoadLevel(data.Scene); err != nil {
			return err
		}
	}
	c := s.Controller()
	if c == nil {
		return ErrNoPlayer
	}
	c.Restore(data.Player)
	return nil
}

// Revive brings a dead player back: from the last save when the profile has
// one, otherwise at the level's player spawn.
func (s *Simulation) Revive() error {
	if s.profile != "" && s.store.Exists(s.profile) {
		return s.Load()
	}
	_, a, ok := s.Player()
	if !ok {
		return ErrNoPlayer
	}
	if pos, ok := s.spawnPoint(); ok && a.Body != nil {
		a.Body.SetPosition(pos.Add(cp.Vector{Y: a.Body.Bounds().Height / 2}))
		a.Body.SetVelocity(cp.Vector{})
	}
	a.Death.Revive()
	return nil
}

func (s *Simulation) spawnPoint() (cp.Vector, bool) {
	if s.level == nil {
		return cp.Vector{}, false
	}
	for _, spec := range s.level.Entities {
		if spec.Type == s.cfg.Sim.PlayerPrefab {
			x, y := s.level.Feet(spec.X, spec.Y)
			return cp.Vector{X: x, Y: y}, true
		}
	}
	return cp.Vector{}, false
}

// Reload reacts to an edited prefab or script. Scripts recompile on the next
// step; prefab edits rebuild the level with the player carried over. A prefab
// edit that breaks the rebuild keeps the current level running.
func (s *Simulation) Reload(path string) error {
	clean := filepath.ToSlash(path)
	switch strings.ToLower(filepath.Ext(clean)) {
	case ".tengo":
		log.Printf("sim: reload script %s", clean)
		s.scripts.Invalidate(clean)
		return nil
	case ".yaml", ".yml":
		log.Printf("sim: reload prefab %s", clean)
		var snap *actor.Snapshot
		if _, a, ok := s.Player(); ok {
			v := a.Snapshot()
			snap = &v
		}
		if err := s.LoadLevel(s.levelName); err != nil {
			return err
		}
		if snap != nil {
			s.Controller().Restore(*snap)
		}
		return nil
	}
	return nil
}
