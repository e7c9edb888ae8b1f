// Profiling:
// go build ./profile/systems
// ./systems -config world.yaml
// go tool pprof -http=":8000" ./systems cpu.pprof

package main

import (
	"flag"
	"log"

	"github.com/edwinsyarief/elisa"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

var (
	positionKind = elisa.NewKind[position]("position")
	velocityKind = elisa.NewKind[velocity]("velocity")
)

func main() {
	configPath := flag.String("config", "", "world configuration file (YAML)")
	ticks := flag.Int("ticks", 10000, "number of ticks to run")
	entities := flag.Int("entities", 100000, "number of entities")
	flag.Parse()

	cfg := elisa.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = elisa.LoadConfigFile(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	opts, err := cfg.Options()
	if err != nil {
		log.Fatal(err)
	}
	w := elisa.NewWorld(opts...)
	defer func() { _ = w.Logger().Sync() }()

	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	if err := run(w, cfg, *ticks, *entities); err != nil {
		w.Logger().Error("run failed", zap.Error(err))
	}
	p.Stop()
}

func run(w *elisa.World, cfg elisa.Config, ticks, numEntities int) error {
	for i := range numEntities {
		e := w.CreateEntity()
		e.MustAdd(positionKind.New(position{}))
		if i%2 == 0 {
			e.MustAdd(velocityKind.New(velocity{X: 1, Y: 0.5}))
		}
	}

	movement, err := elisa.NewParallelSystem(cfg.Workers, func(dt float64, e *elisa.Entity) {
		p, _ := positionKind.Get(e)
		v, _ := velocityKind.Get(e)
		p.X += v.X * dt
		p.Y += v.Y * dt
	}, elisa.WithRequired(positionKind.Type(), velocityKind.Type()), elisa.WithParallelLogger(w.Logger()))
	if err != nil {
		return err
	}
	defer movement.Release()
	if err := w.AddSystem(movement); err != nil {
		return err
	}

	for range ticks {
		if err := w.Tick(cfg.FixedStep); err != nil {
			return err
		}
	}
	w.Logger().Info("profile finished",
		zap.Uint64("ticks", w.Ticks()),
		zap.Int("entities", w.Len()),
		zap.Uint64("panics", movement.Panics()))
	return nil
}
