package imaging

import (
	"image"
	"image/jpeg"
	"io"
)

// DefaultQuality is the JPEG quality used for print layers.
const DefaultQuality = 98

// EncodeJPEG writes img as a JPEG carrying dpi as its physical resolution in
// both a JFIF and an EXIF header.
func EncodeJPEG(w io.Writer, img image.Image, quality int, dpi float64) error {
	exifSeg, err := exifSegment(dpi)
	if err != nil {
		return err
	}
	headers := append(jfifSegment(dpi), exifSeg...)
	sw := &segmentWriter{w: w, segments: headers}
	return jpeg.Encode(sw, img, &jpeg.Options{Quality: quality})
}

// segmentWriter splices extra marker segments in right after the SOI marker
// produced by the standard library encoder.
type segmentWriter struct {
	w        io.Writer
	segments []byte
	seen     int
	done     bool
}

func (s *segmentWriter) Write(p []byte) (int, error) {
	if s.done {
		return s.w.Write(p)
	}

	head := min(2-s.seen, len(p))
	n, err := s.w.Write(p[:head])
	s.seen += n
	if err != nil || s.seen < 2 {
		return n, err
	}

	if _, err := s.w.Write(s.segments); err != nil {
		return n, err
	}
	s.done = true

	m, err := s.w.Write(p[head:])
	return n + m, err
}
