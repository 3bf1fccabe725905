package actor

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/common"
)

type RunnerConfig struct {
	Speed float64 `yaml:"speed"`
}

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{Speed: 5}
}

// runToTask is an in-flight RunTo. It is advanced once per tick until the
// actor crosses targetX.
type runToTask struct {
	targetX   float64
	direction float64
}

func (t *runToTask) done(x float64) bool {
	if t.direction > 0 {
		return x >= t.targetX
	}
	return x <= t.targetX
}

// Runner drives horizontal movement and keeps the Facer in step with it.
type Runner struct {
	body  Body
	facer *Facer
	cfg   RunnerConfig

	task     *runToTask
	finished Notifier[AutoRunFinished]
}

func NewRunner(body Body, facer *Facer, cfg RunnerConfig) *Runner {
	return &Runner{body: body, facer: facer, cfg: cfg}
}

func (r *Runner) Config() RunnerConfig {
	if r == nil {
		return RunnerConfig{}
	}
	return r.cfg
}

// Run sets horizontal velocity to direction*speed.
func (r *Runner) Run(direction float64) {
	if r == nil || r.body == nil {
		return
	}
	v := r.body.Velocity()
	vx := direction * r.cfg.Speed
	r.body.SetVelocity(cp.Vector{X: vx, Y: v.Y})
	if r.facer != nil && vx != 0 && (vx > 0) != (r.facer.Facing() > 0) {
		r.facer.Flip()
	}
}

// StopRun zeroes horizontal velocity and drops any RunTo without finishing it.
func (r *Runner) StopRun() {
	if r == nil || r.body == nil {
		return
	}
	r.task = nil
	v := r.body.Velocity()
	if v.X == 0 {
		return
	}
	r.body.SetVelocity(cp.Vector{X: 0, Y: v.Y})
}

// RunTo runs toward targetX until the actor crosses it, then stops and emits
// AutoRunFinished. A new RunTo replaces one still in flight, which then never
// finishes.
func (r *Runner) RunTo(targetX float64) {
	if r == nil || r.body == nil {
		return
	}
	r.task = nil
	dist := targetX - r.body.Position().X
	if dist == 0 {
		r.finished.Emit(AutoRunFinished{TargetX: targetX})
		return
	}
	task := &runToTask{targetX: targetX, direction: common.Sign(dist)}
	r.Run(task.direction)
	r.task = task
}

// AutoRunning reports whether a RunTo is in flight.
func (r *Runner) AutoRunning() bool {
	return r != nil && r.task != nil
}

// Tick advances the RunTo task, if any.
func (r *Runner) Tick() {
	if r == nil || r.task == nil || r.body == nil {
		return
	}
	task := r.task
	if !task.done(r.body.Position().X) {
		// Keep pace even if something else touched the velocity.
		r.Run(task.direction)
		return
	}
	r.StopRun()
	r.finished.Emit(AutoRunFinished{TargetX: task.targetX})
}

func (r *Runner) OnAutoRunFinished(fn func(AutoRunFinished)) func() {
	if r == nil {
		return func() {}
	}
	return r.finished.Subscribe(fn)
}
