package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/actorkit/config"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults to ./actorkit.yaml when present)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	profile := flag.String("profile", "", "save profile id to resume")
	prefabDir := flag.String("prefabs", "", "directory with prefab overrides; empty string uses embedded prefabs only")
	debug := flag.Bool("debug", false, "draw collision boxes and physics state")
	hotReload := flag.Bool("hot", true, "reload edited prefabs and scripts")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	// Only flags given on the command line override the config file.
	overrides := map[string]any{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "level":
			overrides["sim.level"] = *levelName
		case "profile":
			overrides["save.profile"] = *profile
		case "prefabs":
			overrides["sim.prefab_dir"] = *prefabDir
		case "debug":
			overrides["window.debug"] = *debug
		case "hot":
			overrides["sim.hot_reload"] = *hotReload
		}
	})

	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("actorkit sandbox")
	ebiten.SetTPS(cfg.Sim.TickRate)

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
