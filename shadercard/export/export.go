// Package export renders the print layers offscreen and writes them to disk.
package export

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/imaging"
	"github.com/valerio/go-shadercard/shadercard/layer"
	"github.com/valerio/go-shadercard/shadercard/shader"
	"github.com/valerio/go-shadercard/shadercard/target"
)

// Exporter drives the offscreen render of every layer.
type Exporter struct {
	dev     gpu.Device
	program *shader.Program
	points  *shader.PointBuffer
	layers  []layer.Spec
	state   State
}

// New creates an exporter for the given program. The point buffer must
// belong to the same context.
func New(dev gpu.Device, program *shader.Program, points *shader.PointBuffer) *Exporter {
	return &Exporter{
		dev:     dev,
		program: program,
		points:  points,
		layers:  layer.All(),
	}
}

// State returns the current driver state. It is StateIdle between exports.
func (e *Exporter) State() State {
	return e.state
}

func (e *Exporter) transition(to State, spec string) {
	slog.Debug("Export state", "from", e.state, "to", to, "layer", spec)
	e.state = to
}

// Export renders every layer at cfg.Resolution and writes them to
// cfg.OutputDir. Files are only moved into place once every layer has been
// rendered and encoded; on error no layer file is created or replaced.
func (e *Exporter) Export(cfg Config) (paths []string, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export config: %w", err)
	}

	res := cfg.Resolution
	dpi := cfg.DPI()
	slog.Info("Starting export",
		"resolution", res,
		"print_size_mm", cfg.PrintSize,
		"dpi", dpi,
		"output_dir", cfg.OutputDir)

	tg, err := target.Create(e.dev, res, res)
	if err != nil {
		return nil, err
	}
	e.transition(StateTargetBound, "")
	defer func() {
		tg.Destroy()
		e.transition(StateIdle, "")
	}()

	var staged []*imaging.Pending
	defer func() {
		if err != nil {
			for _, p := range staged {
				if aerr := p.Abort(); aerr != nil {
					slog.Warn("Failed to remove staged file", "path", p.TempPath(), "error", aerr)
				}
			}
		}
	}()

	steps := int64(len(e.layers) * 2)
	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.Default(steps, "exporting")
	} else {
		bar = progressbar.DefaultSilent(steps, "exporting")
	}
	defer bar.Close()

	e.program.Use()
	e.dev.Viewport(0, 0, res, res)
	e.program.SetResolution(res, res)
	e.program.SetTime(0)

	enc := &imaging.Encoder{
		Dir:       cfg.OutputDir,
		Quality:   cfg.Quality,
		DPI:       dpi,
		ProofSize: cfg.ProofSize,
	}

	for _, spec := range e.layers {
		buf, err := e.render(tg, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s layer: %w", spec.Name, err)
		}
		bar.Add(1)

		files, err := enc.Encode(&buf, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to write %s layer: %w", spec.Name, err)
		}
		staged = append(staged, files...)
		e.transition(StateTargetBound, spec.Name)
		bar.Add(1)
	}

	tg.Destroy()

	for _, p := range staged {
		if err := p.Commit(); err != nil {
			return nil, err
		}
		paths = append(paths, p.Path())
	}

	slog.Info("Export completed", "files", paths)
	return paths, nil
}

// render draws one layer into the bound target and reads it back.
func (e *Exporter) render(tg *target.Target, spec layer.Spec) (imaging.PixelBuffer, error) {
	if err := tg.Bind(); err != nil {
		return imaging.PixelBuffer{}, err
	}
	e.program.SetMode(spec.Mode)
	e.dev.Clear()
	e.points.Draw()
	if err := e.dev.Err(); err != nil {
		return imaging.PixelBuffer{}, fmt.Errorf("draw: %w", err)
	}
	e.transition(StateLayerDrawn, spec.Name)

	buf, err := tg.ReadPixels()
	if err != nil {
		return imaging.PixelBuffer{}, fmt.Errorf("readback: %w", err)
	}
	if err := e.dev.Err(); err != nil {
		return imaging.PixelBuffer{}, fmt.Errorf("readback: %w", err)
	}
	e.transition(StateRead, spec.Name)
	return buf, nil
}
