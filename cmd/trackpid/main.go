// Command trackpid classifies reconstructed particle tracks: it reads a
// JSON dump of tracks, assembles the network inputs for each one, calls the
// model server, and records the scores in SQLite.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	ossignal "os/signal"
	"syscall"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/argoncube/trackpid/internal/config"
	"github.com/argoncube/trackpid/internal/features"
	"github.com/argoncube/trackpid/internal/inference"
	"github.com/argoncube/trackpid/internal/pipeline"
	"github.com/argoncube/trackpid/internal/signal"
	"github.com/argoncube/trackpid/internal/store"
	"github.com/argoncube/trackpid/internal/track"
)

var (
	configPath = flag.String("config", "", "Path to tuning config JSON (defaults apply when empty)")
	tracksPath = flag.String("tracks", "", "Path to the JSON track dump to classify")
	dbPath     = flag.String("db", "", "SQLite results database (overrides config; empty uses config value)")
	modelURL   = flag.String("model-url", "", "Model server predict endpoint (overrides config)")
	workers    = flag.Int("workers", 0, "Concurrent classifications (overrides config)")
	noStore    = flag.Bool("no-store", false, "Skip result persistence")
	fixedSeed  = flag.Bool("fixed-seed", false, "Use the legacy fixed-seed padding noise (reproducible output)")
)

// trackRecord is one track in the input dump, topology counts included.
type trackRecord struct {
	ID             string       `json:"id"`
	Dedx           []float64    `json:"dedx"`
	Directions     [][3]float64 `json:"directions"`
	NTracks        int          `json:"n_tracks"`
	NShowers       int          `json:"n_showers"`
	NGrandchildren int          `json:"n_grandchildren"`
}

// dumpTopology answers topology queries from the counts carried in the
// track dump itself.
type dumpTopology map[string]trackRecord

func (d dumpTopology) ChildCounts(trackID string) (int, int, int, error) {
	rec, ok := d[trackID]
	if !ok {
		return 0, 0, 0, fmt.Errorf("no topology counts for track %s", trackID)
	}
	return rec.NTracks, rec.NShowers, rec.NGrandchildren, nil
}

func loadTracks(path string) ([]*track.Track, dumpTopology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading track dump: %w", err)
	}
	var records []trackRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("parsing track dump: %w", err)
	}

	topo := make(dumpTopology, len(records))
	tracks := make([]*track.Track, 0, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("trk_%d", i)
		}
		topo[rec.ID] = rec

		dirs := make([]r3.Vec, len(rec.Directions))
		for j, d := range rec.Directions {
			dirs[j] = r3.Vec{X: d[0], Y: d[1], Z: d[2]}
		}
		tracks = append(tracks, &track.Track{ID: rec.ID, Dedx: rec.Dedx, Directions: dirs})
	}
	return tracks, topo, nil
}

func run() error {
	cfg := config.Empty()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if *tracksPath == "" {
		return fmt.Errorf("a track dump is required: -tracks <file.json>")
	}
	tracks, topo, err := loadTracks(*tracksPath)
	if err != nil {
		return err
	}
	log.Printf("loaded %d tracks from %s", len(tracks), *tracksPath)

	var opts []features.AssemblerOption
	if *fixedSeed {
		opts = append(opts, features.WithRandSource(func() rand.Source {
			return signal.FixedSource(0)
		}))
	}
	asm, err := features.NewAssembler(cfg, topo, opts...)
	if err != nil {
		return err
	}

	url := cfg.GetModelURL()
	if *modelURL != "" {
		url = *modelURL
	}
	engine := inference.NewHTTPEngine(url, cfg.GetModelName(), nil)

	var results pipeline.Store
	if !*noStore {
		path := cfg.GetDatabasePath()
		if *dbPath != "" {
			path = *dbPath
		}
		db, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("opening results database: %w", err)
		}
		defer db.Close()
		results = db
	}

	p, err := pipeline.New(asm, engine, results, cfg.GetModelName())
	if err != nil {
		return err
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nWorkers := cfg.GetBatchWorkers()
	if *workers > 0 {
		nWorkers = *workers
	}

	outcomes := p.ClassifyBatch(ctx, tracks, nWorkers)

	var classified, skipped, failed int
	for _, out := range outcomes {
		switch {
		case out.Err != nil:
			failed++
			log.Printf("track %s: %v", out.TrackID, out.Err)
		case out.Skipped:
			skipped++
		default:
			classified++
			best, score := out.Result.Best()
			log.Printf("track %s: %s (%.3f) [mu=%.3f pi=%.3f p=%.3f]",
				out.TrackID, best, score, out.Result.Muon, out.Result.Pion, out.Result.Proton)
		}
	}
	log.Printf("done: %d classified, %d skipped, %d failed", classified, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d tracks failed", failed)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
