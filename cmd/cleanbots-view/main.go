//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"strconv"

	"cleanbots/internal/app"
	"cleanbots/internal/core"
	_ "cleanbots/internal/sims/cleaning"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q", cfg.Sim)
	}

	params := cfg.Overrides.Map()
	if _, set := params["seed"]; !set {
		params["seed"] = strconv.FormatInt(cfg.Seed, 10)
	}
	sim, err := factory(params)
	if err != nil {
		log.Fatal(err)
	}

	game := app.New(sim, cfg.Scale, cfg.TPS, cfg.Seed)
	size := sim.Size()

	ebiten.SetWindowTitle("cleanbots - " + sim.Name())
	ebiten.SetWindowSize(size.W*cfg.Scale+240, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
