package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/67O7XoO4/go-boids/pkg/simulation"
	"github.com/67O7XoO4/go-boids/pkg/viewer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "configs/boids.json", "flock configuration, JSON, YAML or TOML")
	schemaFile := flag.String("schema", "configs/boids.schema.json", "JSON schema used to validate the configuration")
	watch := flag.Bool("watch", false, "reload the configuration when the file changes")
	debug := flag.Bool("debug", false, "log tick rates and actor internals")
	flag.Parse()

	cfg, err := simulation.LoadConfig(*configFile, *schemaFile)
	if err != nil {
		log.Fatal(err)
	}

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}

	ctx := context.Background()
	system, err := actor.NewActorSystem("Boids", actor.WithLogger(golog.New(level, os.Stdout)))
	if err != nil {
		log.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer system.Stop(ctx)

	var watcher *simulation.ConfigWatcher
	if *watch {
		watcher, err = simulation.WatchConfig(*configFile, *schemaFile)
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
	}

	game, err := viewer.NewGame(ctx, cfg, system, watcher)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TicksPerSecond)
	if err := ebiten.RunGame(game); err != nil {
		log.Println(err)
	}
}
