package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/actorkit/config"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/system"
	"github.com/milk9111/actorkit/prefabs"
	"github.com/milk9111/actorkit/save"
	"github.com/milk9111/actorkit/sim"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const messageSeconds = 2.0

type Game struct {
	cfg *config.Config
	sim *sim.Simulation

	view   *ecs.Scheduler
	render *renderSystem
	ui     *ebitenui.UI
	keys   bindings

	watcher   *prefabs.Watcher
	clipboard bool

	frames  int
	paused  bool
	quit    bool
	message string
	msgLeft float64
}

func NewGame(cfg *config.Config) (*Game, error) {
	store, err := save.Open(cfg.Save.AppName)
	if err != nil {
		log.Printf("sandbox: saves disabled, keeping them in memory: %v", err)
		store = save.NewStore(nil)
	}

	g := &Game{
		cfg:    cfg,
		sim:    sim.New(cfg, store),
		render: newRenderSystem(cfg.Window.Width, cfg.Window.Height, cfg.Window.Scale, cfg.Window.Debug),
		keys:   defaultBindings(),
	}
	g.view = ecs.NewScheduler(g.render)

	if err := g.start(); err != nil {
		return nil, err
	}

	g.sim.OnDied(func(evt system.DiedEvent) {
		if e, _, ok := g.sim.Player(); ok && e == evt.Entity {
			g.notify("You died. Press R to revive")
		}
	})
	g.sim.OnSaved(func(save.SaveData) { g.notify("Saved") })

	g.ui = newPauseUI(cfg.Window.Width, cfg.Window.Height, []pauseAction{
		{"Resume", func() { g.paused = false }},
		{"Save", func() { g.save(); g.paused = false }},
		{"Load", func() { g.load(); g.paused = false }},
		{"Revive", func() { g.revive(); g.paused = false }},
		{"Quit", func() { g.quit = true }},
	})

	if cfg.Sim.HotReload {
		g.watch(prefabs.Dir())
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("sandbox: clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}
	return g, nil
}

// start resumes the configured profile when it has a save and otherwise
// loads the configured level.
func (g *Game) start() error {
	if id := g.cfg.Save.Profile; id != "" && g.sim.Store().Exists(id) {
		data, err := g.sim.Store().Load(id)
		if err == nil {
			g.applyBindings(data.BindingOverrides)
			if err = g.sim.Load(); err == nil {
				return nil
			}
		}
		log.Printf("sandbox: profile %s: %v", id, err)
	}
	return g.sim.LoadLevel(g.cfg.Sim.Level)
}

func (g *Game) applyBindings(overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	keys, err := defaultBindings().withOverrides(overrides)
	if err != nil {
		log.Printf("sandbox: %v", err)
		return
	}
	g.keys = keys
}

func (g *Game) watch(dir string) {
	if dir == "" {
		return
	}
	w, err := prefabs.NewWatcher(dir, filepath.Join(dir, "scripts"))
	if err != nil {
		log.Printf("sandbox: hot reload off: %v", err)
		return
	}
	g.watcher = w
	log.Printf("sandbox: watching %s", dir)
}

// drainReloads applies pending file edits without blocking the frame.
func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.sim.Reload(path); err != nil {
				log.Printf("sandbox: reload %s: %v", path, err)
				continue
			}
			g.notify("Reloaded " + filepath.Base(path))
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("sandbox: watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) notify(msg string) {
	g.message = msg
	g.msgLeft = messageSeconds
}

func (g *Game) save() {
	if err := g.sim.Save(); err != nil {
		g.notify(fmt.Sprintf("Save failed: %v", err))
	}
}

func (g *Game) load() {
	if err := g.sim.Load(); err != nil {
		g.notify(fmt.Sprintf("Load failed: %v", err))
		return
	}
	g.notify("Loaded")
}

func (g *Game) revive() {
	_, a, ok := g.sim.Player()
	if !ok || !a.Death.IsDead() {
		return
	}
	if err := g.sim.Revive(); err != nil {
		g.notify(fmt.Sprintf("Revive failed: %v", err))
	}
}

// copySnapshot puts the player's state on the clipboard as yaml.
func (g *Game) copySnapshot() {
	if !g.clipboard {
		return
	}
	data, err := g.sim.Snapshot()
	if err != nil {
		g.notify(err.Error())
		return
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		g.notify(err.Error())
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	g.notify("Snapshot copied")
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		if g.watcher != nil {
			_ = g.watcher.Close()
		}
		return ebiten.Termination
	}

	if g.keys.justPressed(actionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	g.drainReloads()

	switch {
	case g.keys.justPressed(actionSave):
		g.save()
	case g.keys.justPressed(actionLoad):
		g.load()
	case g.keys.justPressed(actionRevive):
		g.revive()
	case g.keys.justPressed(actionSnapshot):
		g.copySnapshot()
	}

	readInput(g.sim.Input(), g.keys)
	g.sim.Step()

	dt := g.cfg.Step()
	g.render.attach(g.sim.World(), g.sim.Level(), g.sim.Physics())
	g.view.Update(g.sim.World(), dt)
	if g.msgLeft > 0 {
		g.msgLeft -= dt
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	g.view.Draw(g.sim.World(), screen)

	hud := fmt.Sprintf("FPS: %.2f  level: %s", ebiten.ActualFPS(), g.sim.LevelName())
	if _, a, ok := g.sim.Player(); ok {
		hud += fmt.Sprintf("\nhealth: %.0f/%.0f  %s", a.Health.CurrentHealth(), a.Health.MaxHealth(), a.Jumper.State())
		if g.cfg.Window.Debug {
			p, v := a.Position(), a.Body.Velocity()
			hud += fmt.Sprintf("\npos: (%.2f, %.2f)  vel: (%.2f, %.2f)  grounded: %v", p.X, p.Y, v.X, v.Y, a.Grounder.Grounded())
		}
	}
	if g.msgLeft > 0 {
		hud += "\n" + g.message
	}
	ebitenutil.DebugPrint(screen, hud)

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
