package imaging

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-shadercard/shadercard/layer"
)

// Extension is appended to every layer name.
const Extension = ".jpg"

// ProofSuffix is appended to the layer name of proof images.
const ProofSuffix = "_proof.png"

// Encoder writes finished layers into Dir.
type Encoder struct {
	Dir       string
	Quality   int
	DPI       float64
	ProofSize int
}

// Encode orients buf for spec and stages the layer JPEG (and proof, when
// enabled) in e.Dir. The caller commits or aborts the returned files.
func (e *Encoder) Encode(buf *PixelBuffer, spec layer.Spec) ([]*Pending, error) {
	img := Process(buf, spec)

	var staged []*Pending
	fail := func(err error) ([]*Pending, error) {
		for _, p := range staged {
			p.Abort()
		}
		return nil, err
	}

	out, err := Stage(e.Dir, spec.Name+Extension)
	if err != nil {
		return fail(err)
	}
	staged = append(staged, out)
	if err := EncodeJPEG(out, img, e.Quality, e.DPI); err != nil {
		return fail(fmt.Errorf("failed to encode %s: %w", out.Path(), err))
	}
	slog.Debug("Layer encoded", "layer", spec.Name, "path", out.Path(),
		"size", fmt.Sprintf("%dx%d", buf.Width, buf.Height), "dpi", e.DPI)

	if e.ProofSize > 0 {
		proof, err := Stage(e.Dir, spec.Name+ProofSuffix)
		if err != nil {
			return fail(err)
		}
		staged = append(staged, proof)
		if err := WriteProof(proof, img, e.ProofSize); err != nil {
			return fail(fmt.Errorf("failed to encode %s: %w", proof.Path(), err))
		}
	}

	return staged, nil
}
