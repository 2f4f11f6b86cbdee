// Package main is the entry point for the scatter chart.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/statehealth/scatter/internal/cache"
	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/config"
	"github.com/statehealth/scatter/internal/data"
	"github.com/statehealth/scatter/internal/render"
	"github.com/statehealth/scatter/internal/session"
	"github.com/statehealth/scatter/internal/tooltip"
	"github.com/statehealth/scatter/internal/transition"
	"github.com/statehealth/scatter/internal/tui"
	"github.com/statehealth/scatter/pkg/colormap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/scatter.yaml", "Path to configuration file")
	dataPath := flag.String("data", "", "CSV data file (overrides data.path)")
	mode := flag.String("mode", "tui", "Output mode: tui, svg, frames or snapshot")
	scriptPath := flag.String("script", "", "Event script to play before rendering")
	outDir := flag.String("out", "", "Output directory (overrides output.dir)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ds, err := data.Load(cfg.Data.Path, data.Options{StrictNumeric: cfg.Data.StrictNumeric})
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}
	log.Printf("Loaded %d states from %s", ds.Len(), cfg.Data.Path)

	style, err := buildStyle(cfg, ds)
	if err != nil {
		log.Fatalf("Invalid render settings: %v", err)
	}

	cacheManager, err := cache.NewManager(cache.Config{
		FrameCacheSizeMB:  cfg.Cache.FrameSizeMB,
		FrameTTL:          cfg.FrameTTL(),
		DocumentCacheSize: cfg.Cache.DocumentCacheSize,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer cacheManager.Close()

	if *mode == "tui" {
		tl := transition.NewTimeline(transition.NewWallClock())
		chart := newChart(cfg, ds, tl, true)
		if err := tui.Run(chart, tl, svgExporter(cfg, style, tl, cacheManager)); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	var script []byte
	if *scriptPath != "" {
		if script, err = os.ReadFile(*scriptPath); err != nil {
			log.Fatalf("Failed to read script: %v", err)
		}
	}
	events, err := session.ParseScript(bytes.NewReader(script))
	if err != nil {
		log.Fatalf("Failed to parse script: %v", err)
	}

	clock := &transition.ManualClock{}
	tl := transition.NewTimeline(clock)
	chart := newChart(cfg, ds, tl, false)
	if err := events.Play(chart, clock); err != nil {
		log.Fatalf("Failed to play script: %v", err)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	switch *mode {
	case "svg":
		err = writeSVG(cfg, style, tl, cacheManager)
	case "frames":
		err = writeFrames(cfg, style, tl, cacheManager)
	case "snapshot":
		err = writeSnapshot(cfg, style, tl, cacheManager)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatalf("[render] %v", err)
	}
}

func newChart(cfg *config.Config, ds *data.Dataset, tl *transition.Timeline, quiet bool) *session.Chart {
	w, h := cfg.PlotSize()
	return session.New(session.Config{
		Dataset: ds,
		Surface: tl,
		Widget:  tl,
		Width:   float64(w),
		Height:  float64(h),
		Offset: tooltip.Offset{
			Top:  *cfg.Render.Tooltip.OffsetTop,
			Left: *cfg.Render.Tooltip.OffsetLeft,
		},
		Duration: cfg.TransitionDuration(),
		Quiet:    quiet,
	})
}

func buildStyle(cfg *config.Config, ds *data.Dataset) (render.Style, error) {
	fill, err := colormap.ParseColor(cfg.Render.Fill)
	if err != nil {
		return render.Style{}, err
	}

	m := cfg.Chart.Margin
	style := render.Style{
		Layout: render.Layout{
			Width:  cfg.Chart.Width,
			Height: cfg.Chart.Height,
			Margin: render.Margin{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left},
		},
		MarkRadius: cfg.Render.MarkRadius,
		Fill:       fill,
	}

	if cfg.Render.ColorBy != "" {
		k, err := column.ParseKey(cfg.Render.ColorBy)
		if err != nil {
			return render.Style{}, fmt.Errorf("color_by: %w", err)
		}
		cmap, ok := colormap.Named(cfg.Render.Colormap)
		if !ok {
			return render.Style{}, fmt.Errorf("unknown colormap %q", cfg.Render.Colormap)
		}
		style.MarkColors = render.ColorBy(ds, k, cmap)
	}
	return style, nil
}

func writeSVG(cfg *config.Config, style render.Style, tl *transition.Timeline, c *cache.Manager) error {
	doc, err := render.NewSVGRenderer(style, c).Document(tl)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(cfg.Output.Dir, "chart.svg"), doc)
}

// svgExporter saves the live chart as chart.svg. It does not log, since
// the terminal belongs to the TUI.
func svgExporter(cfg *config.Config, style render.Style, tl *transition.Timeline, c *cache.Manager) tui.Exporter {
	r := render.NewSVGRenderer(style, c)
	return func() (string, error) {
		doc, err := r.Document(tl)
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(cfg.Output.Dir, "chart.svg")
		if err := os.WriteFile(path, doc, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
		return path, nil
	}
}

func writeFrames(cfg *config.Config, style render.Style, tl *transition.Timeline, c *cache.Manager) error {
	r, err := render.NewFrameRenderer(style, c)
	if err != nil {
		return err
	}

	times := render.Times(tl, cfg.Render.FrameRate)
	for i, t := range times {
		png, err := r.RenderAt(tl, t)
		if err != nil {
			return fmt.Errorf("failed to render frame %d: %w", i, err)
		}
		if err := writeFile(filepath.Join(cfg.Output.Dir, fmt.Sprintf("frame-%04d.png", i)), png); err != nil {
			return err
		}
	}

	path := filepath.Join(cfg.Output.Dir, "chart.gif")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := r.EncodeGIF(f, render.Sequence(tl, cfg.Render.FrameRate), cfg.Render.FrameRate); err != nil {
		return err
	}
	log.Printf("[render] wrote %d frames and %s", len(times), path)
	log.Printf("[render] frame cache: %v", c.Stats())
	return nil
}

func writeSnapshot(cfg *config.Config, style render.Style, tl *transition.Timeline, c *cache.Manager) error {
	r, err := render.NewFrameRenderer(style, c)
	if err != nil {
		return err
	}
	png, err := r.RenderAt(tl, tl.End())
	if err != nil {
		return fmt.Errorf("failed to render snapshot: %w", err)
	}
	return writeFile(filepath.Join(cfg.Output.Dir, "snapshot.png"), png)
}

func writeFile(path string, b []byte) error {
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("[render] wrote %s (%d bytes)", path, len(b))
	return nil
}
