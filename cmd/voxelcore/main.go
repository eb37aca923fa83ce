package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/xlab/closer"

	"voxelcore/internal/config"
	"voxelcore/internal/logging"
	"voxelcore/internal/meshing"
	"voxelcore/internal/metrics"
	"voxelcore/internal/registry"
	"voxelcore/internal/terrain"
	"voxelcore/internal/world"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to config.yaml (default: $"+config.EnvConfigPath+" or built-in defaults)")
		frames  = flag.Int("frames", 0, "stop after this many frames (0: run until interrupted)")
		profile = flag.Bool("profile", false, "log the slowest sections once per second")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
	logging.SetLevel(level)
	config.Apply(cfg)
	world.SetRandomSeed(cfg.Terrain.Seed)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	if cfg.MetricsAddr != "" {
		srv := metrics.StartHTTP(cfg.MetricsAddr, reg)
		closer.Bind(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}

	palette := registry.NewPalette()
	defaults := registry.RegisterDefaults(palette)

	details := terrain.NewDetailQueue(8192)
	painter, err := terrain.New(cfg.Terrain, defaults, details, metrics.NewTerrain(reg))
	if err != nil {
		logging.Error("terrain: %v", err)
		os.Exit(1)
	}

	store := world.NewChunkStore()
	minChunkY := floorDiv(int(cfg.Terrain.MinHeight), world.ChunkSize)
	streamer := world.NewChunkStreamer(store, painter, minChunkY)

	mopts, sopts := meshing.OptionsFromConfig(cfg.Meshing)
	sopts.Metrics = metrics.NewScheduler(reg)
	sopts.OnChunkAfterFirstRender = func(c *world.Chunk) {
		logging.Debug("chunk %v rendered", c.Coord)
	}
	scheduler := meshing.NewScheduler(store, palette, mopts, sopts)
	logging.Info("mesh scheduler: %d lanes x %d slots, threaded=%v", scheduler.Lanes(), scheduler.SlotsPerLane(), sopts.Threaded)

	closer.Bind(func() {
		streamer.Close()
		if !scheduler.Stop() {
			logging.Warn("mesh scheduler did not stop cleanly")
		}
	})

	d := newDriver(store, streamer, scheduler, details, !sopts.Threaded)
	d.frames = *frames
	d.profile = *profile

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.run(ctx)
		close(done)
		// Close does not return; the bound cleanup waits on done
		if ctx.Err() == nil {
			closer.Close()
		}
	}()
	// bound last, runs first
	closer.Bind(func() {
		cancel()
		<-done
		d.logStats()
	})

	closer.Hold()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
