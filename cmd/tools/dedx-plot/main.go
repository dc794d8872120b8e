// Command dedx-plot renders the raw and smoothed dE/dx profile of a track
// from a JSON track dump. Useful for eyeballing what the jump filter and
// clamp actually do to a noisy calorimetry readout before it reaches the
// network.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/argoncube/trackpid/internal/signal"
)

var (
	tracksPath = flag.String("tracks", "", "Path to the JSON track dump")
	trackID    = flag.String("track", "", "Track ID to plot (default: first track)")
	output     = flag.String("o", "dedx.png", "Output image path")
	maxCharge  = flag.Float64("max-charge", 1000, "dE/dx clamp ceiling")
	maxJump    = flag.Float64("max-jump", 500, "Point-to-point jump threshold")
)

type trackRecord struct {
	ID   string    `json:"id"`
	Dedx []float64 `json:"dedx"`
}

func pickTrack(records []trackRecord, id string) (*trackRecord, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("track dump contains no tracks")
	}
	if id == "" {
		return &records[0], nil
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("track %q not found in dump", id)
}

func toXYs(seq []float64) plotter.XYs {
	pts := make(plotter.XYs, len(seq))
	for i, v := range seq {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

func run() error {
	if *tracksPath == "" {
		return fmt.Errorf("a track dump is required: -tracks <file.json>")
	}
	data, err := os.ReadFile(*tracksPath)
	if err != nil {
		return fmt.Errorf("reading track dump: %w", err)
	}
	var records []trackRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing track dump: %w", err)
	}

	rec, err := pickTrack(records, *trackID)
	if err != nil {
		return err
	}

	raw := append([]float64(nil), rec.Dedx...)
	smoothed := append([]float64(nil), rec.Dedx...)
	if err := signal.Smooth(smoothed, *maxCharge, *maxJump); err != nil {
		return fmt.Errorf("smoothing track %s: %w", rec.ID, err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Track %s - dE/dx profile", rec.ID)
	p.X.Label.Text = "Trajectory point"
	p.Y.Label.Text = "dE/dx"

	rawLine, err := plotter.NewLine(toXYs(raw))
	if err != nil {
		return err
	}
	rawLine.Color = color.RGBA{R: 180, G: 180, B: 180, A: 255}
	rawLine.Width = vg.Points(1)
	p.Add(rawLine)
	p.Legend.Add("raw", rawLine)

	smoothLine, err := plotter.NewLine(toXYs(smoothed))
	if err != nil {
		return err
	}
	smoothLine.Color = color.RGBA{R: 220, G: 50, B: 50, A: 255}
	smoothLine.Width = vg.Points(1.5)
	p.Add(smoothLine)
	p.Legend.Add("smoothed", smoothLine)

	if err := p.Save(10*vg.Inch, 4*vg.Inch, *output); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	log.Printf("wrote %s (%d points)", *output, len(raw))
	return nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
