package export

import (
	"errors"
	"fmt"

	"github.com/valerio/go-shadercard/shadercard/imaging"
)

// Config describes one export run.
type Config struct {
	// Resolution is the width and height of both layers in pixels.
	Resolution int
	// PrintSize is the printed edge length in millimeters.
	PrintSize float64
	// OutputDir receives the layer files.
	OutputDir string
	// ProofSize enables downscaled PNG proofs of this size when positive.
	ProofSize int
	// Quality is the JPEG quality, 1..100.
	Quality int
	// Progress shows a progress bar on stderr.
	Progress bool
}

// DPI is the physical density recorded in the layer files.
func (c Config) DPI() float64 {
	return imaging.DPI(c.Resolution, c.PrintSize)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %d", c.Resolution))
	}
	if c.PrintSize <= 0 {
		errs = append(errs, fmt.Errorf("print size must be positive, got %g", c.PrintSize))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory must not be empty"))
	}
	if c.ProofSize < 0 {
		errs = append(errs, fmt.Errorf("proof size must not be negative, got %d", c.ProofSize))
	}
	return errors.Join(errs...)
}
