package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/TheBitDrifter/quadtree"
	"github.com/TheBitDrifter/quadtree/internal/sim"
	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

// Set at build.
var version = "v0.1.0"

type config struct {
	Entities     int           `cli:""        env:"QUADSIM_ENTITIES"      help:"Number of bodies to simulate."`
	Kinds        int           `cli:""        env:"QUADSIM_KINDS"         help:"Number of body kinds, each indexed on its own layer."`
	KindNames    string        `cli:""        env:"QUADSIM_KIND_NAMES"    help:"Comma separated names for the body kinds."`
	Ticks        int           `cli:""        env:"QUADSIM_TICKS"         help:"Ticks to run before exiting, 0 runs until interrupted."`
	TickInterval time.Duration `cli:""        env:"QUADSIM_TICK_INTERVAL" help:"Duration of a tick."`
	Seed         int           `cli:""        env:"QUADSIM_SEED"          help:"Seed for spawning bodies."`
	HalfSize     float64       `cli:""        env:"QUADSIM_HALF_SIZE"     help:"Half edge length of each body extent."`
	Speed        float64       `cli:""        env:"QUADSIM_SPEED"         help:"Maximum distance a body moves per tick on each axis."`
	QueryRadius  float64       `cli:""        env:"QUADSIM_QUERY_RADIUS"  help:"Radius of the per-body neighbour query."`
	Capacity     int           `cli:",hidden" env:"QUADSIM_CAPACITY"      help:"Members a leaf holds before splitting."`
	MaxDepth     int           `cli:",hidden" env:"QUADSIM_MAX_DEPTH"     help:"Depth below which leaves never split."`
	SummaryEvery int           `cli:",hidden" env:"QUADSIM_SUMMARY_EVERY" help:"Ticks between each index summary log."`
	MetricsAddr  string        `cli:""        env:"QUADSIM_METRICS_ADDR"  help:"Listening address for Prometheus metrics, empty disables it."`
	LogLevel     string        `cli:""        env:"QUADSIM_LOG_LEVEL"     help:"Log level (debug|info|warning|error)."`
	LogIndent    bool          `cli:""        env:"QUADSIM_LOG_INDENT"    help:"Indent logs."`
	Version      bool          `cli:""        env:"-"                     help:"Show version."`
	Help         bool          `cli:""        env:"-"                     help:"Show help."`
}

func main() {
	conf := config{
		Entities:     200,
		Kinds:        2,
		TickInterval: time.Millisecond * 50,
		Seed:         1,
		HalfSize:     0.005,
		Speed:        0.01,
		QueryRadius:  0.05,
		Capacity:     quadtree.DefaultCapacity,
		MaxDepth:     quadtree.DefaultMaxDepth,
		SummaryEvery: 20,
		LogLevel:     logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Runs a moving-body simulation on top of a quadtree index.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	world, err := sim.NewWorld(sim.Options{
		Entities:  conf.Entities,
		Kinds:     conf.Kinds,
		KindNames: kindNames(conf.KindNames),
		HalfSize:  float32(conf.HalfSize),
		Speed:     float32(conf.Speed),
		Seed:      int64(conf.Seed),
		Index: quadtree.IndexConfig{
			Capacity: conf.Capacity,
			MaxDepth: conf.MaxDepth,
		},
	})
	if err != nil {
		logs.Fatal(errors.New("spawning bodies failed").Wrap(err))
	}

	var wg sync.WaitGroup
	if conf.MetricsAddr != "" {
		var mux http.ServeMux
		mux.Handle("/metrics", promhttp.Handler())

		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(ctx, &http.Server{Addr: conf.MetricsAddr, Handler: &mux})
		}()
	}

	logs.WithTag("version", version).
		WithTag("entities", conf.Entities).
		WithTag("tick_interval", conf.TickInterval).
		Info("starting simulation")

	run(ctx, world, conf)
	cancel()
	wg.Wait()
}

func run(ctx context.Context, world *sim.World, conf config) {
	ticker := time.NewTicker(conf.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logs.WithTag("tick", world.Ticks()).Info("simulation interrupted")
			return

		case <-ticker.C:
			if err := world.Tick(); err != nil {
				logs.Warn(errors.New("tick failed").
					WithTag("tick", world.Ticks()).
					Wrap(err))
			}

			if conf.SummaryEvery > 0 && world.Ticks()%conf.SummaryEvery == 0 {
				summarize(world, conf)
			}

			if conf.Ticks > 0 && world.Ticks() >= conf.Ticks {
				summarize(world, conf)
				logs.WithTag("tick", world.Ticks()).Info("simulation finished")
				return
			}
		}
	}
}

func summarize(world *sim.World, conf config) {
	info := world.Index().DebugInfo()
	logs.WithTag("tick", world.Ticks()).
		WithTag("nodes", info.NodeCount).
		WithTag("leaves", info.LeafCount).
		WithTag("depth", info.MaxDepth).
		WithTag("tracked", info.Tracked).
		WithTag("contacts", world.Contacts(float32(conf.QueryRadius))).
		WithTag("kinds", world.KindCounts()).
		Info("index summary")
}

func kindNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func serve(ctx context.Context, s *http.Server) {
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			logs.Warn(errors.Newf("shutting down the metrics server failed").
				WithTag("addr", s.Addr).
				Wrap(err))
		}
	}()

	logs.WithTag("addr", s.Addr).Info("starting metrics server")
	switch err := s.ListenAndServe(); err {
	case nil, http.ErrServerClosed:
		logs.WithTag("addr", s.Addr).Info("stopping metrics server")

	default:
		logs.Warn(errors.Newf("metrics server stopped").
			WithTag("addr", s.Addr).
			Wrap(err))
	}
}

func validateConfig(conf config) error {
	if conf.Entities < 0 {
		return errors.New("entities cannot be negative").
			WithTag("entities", conf.Entities)
	}
	if conf.Kinds > quadtree.MaxLayers || len(kindNames(conf.KindNames)) > quadtree.MaxLayers {
		return errors.New("too many body kinds").
			WithTag("kinds", conf.Kinds).
			WithTag("max", quadtree.MaxLayers)
	}
	if conf.TickInterval <= 0 {
		return errors.New("tick interval must be positive").
			WithTag("tick_interval", conf.TickInterval)
	}
	if conf.HalfSize < 0 || conf.HalfSize*2 >= 1 {
		return errors.New("half size must fit the unit square").
			WithTag("half_size", conf.HalfSize)
	}
	if conf.QueryRadius <= 0 {
		return errors.New("query radius must be positive").
			WithTag("query_radius", conf.QueryRadius)
	}
	return nil
}
