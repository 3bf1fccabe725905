package actor

import "github.com/jakecoffman/cp"

// Config gathers the tuning of every part of an actor.
type Config struct {
	Facing   int            `yaml:"facing"`
	Grounder GrounderConfig `yaml:"grounder"`
	Jumper   JumperConfig   `yaml:"jumper"`
	Runner   RunnerConfig   `yaml:"runner"`
	Health   HealthConfig   `yaml:"health"`
}

func DefaultConfig() Config {
	return Config{
		Facing:   1,
		Grounder: DefaultGrounderConfig(),
		Jumper:   DefaultJumperConfig(),
		Runner:   DefaultRunnerConfig(),
		Health:   DefaultHealthConfig(),
	}
}

// Actor wires the locomotion and combat parts around one body.
type Actor struct {
	Body     Body
	Grounder *Grounder
	Facer    *Facer
	Jumper   *Jumper
	Runner   *Runner
	Health   *HealthManager
	Death    *DeathManager
}

func New(body Body, probe Raycaster, cfg Config) *Actor {
	a := &Actor{Body: body}
	a.Grounder = NewGrounder(body, probe, cfg.Grounder)
	a.Facer = NewFacer(body, cfg.Facing)
	a.Jumper = NewJumper(body, a.Grounder, cfg.Jumper)
	a.Runner = NewRunner(body, a.Facer, cfg.Runner)
	a.Health = NewHealthManager(a.Facer, cfg.Health)
	a.Death = NewDeathManager(a.Health, a.Facer, body)
	return a
}

// Position lets an actor act as a damage Source.
func (a *Actor) Position() cp.Vector {
	if a == nil || a.Body == nil {
		return cp.Vector{}
	}
	return a.Body.Position()
}

// Hurt forwards to the health manager.
func (a *Actor) Hurt(amount float64, source Source) bool {
	if a == nil {
		return false
	}
	return a.Health.Hurt(amount, source)
}

// Tick runs the per-tick work of every part in dependency order: ground
// first, then jump and auto-run, then timers.
func (a *Actor) Tick(dt float64) {
	if a == nil {
		return
	}
	a.Grounder.Tick()
	a.Jumper.Tick()
	a.Runner.Tick()
	a.Health.Tick(dt)
}
