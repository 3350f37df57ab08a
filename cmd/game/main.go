package main

import (
	"flag"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Scorch/internal/game"
	"github.com/Garsondee/Scorch/internal/sim"
)

func main() {
	mode := flag.String("mode", "skirmish", "match mode: skirmish or campaign")
	tanks := flag.Int("tanks", 2, "tanks in a skirmish")
	humans := flag.Int("humans", 1, "keyboard-controlled tanks in a skirmish")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time based)")
	weapons := flag.String("weapons", "", "optional weapons JSON merged over the built-in catalog")
	calm := flag.Bool("calm", false, "disable wind")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "scorch",
	})
	if lvl, err := log.ParseLevel(*level); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level", "level", *level)
	}

	opts := []sim.Option{
		sim.WithTankCount(*tanks),
		sim.WithHumanTanks(*humans),
	}
	switch strings.ToLower(*mode) {
	case "skirmish":
	case "campaign":
		opts = append(opts, sim.WithMode(sim.ModeCampaign))
	default:
		logger.Fatal("unknown mode", "mode", *mode)
	}
	if *seed != 0 {
		opts = append(opts, sim.WithSeed(*seed))
	}
	if *calm {
		opts = append(opts, sim.WithCalm())
	}
	if *weapons != "" {
		ws, err := sim.LoadCatalog(*weapons)
		if err != nil {
			logger.Fatal("weapons", "err", err)
		}
		opts = append(opts, sim.WithCatalog(sim.MergeCatalog(sim.DefaultCatalog(), ws)))
	}

	g := game.New(logger, opts...)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle("Scorch")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("run", "err", err)
	}
}
