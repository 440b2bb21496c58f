package imaging

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	goexif "github.com/rwcarlsen/goexif/exif"
)

// MillimetersPerInch converts print sizes to inches.
const MillimetersPerInch = 25.4

// maxDenominator fixes the precision of the EXIF resolution rationals. Very
// high densities use a smaller one so the numerator still fits 32 bits.
const maxDenominator = 10000

// exifHeader prefixes the TIFF structure inside an APP1 segment.
const exifHeader = "Exif\x00\x00"

// ErrNoDensity is returned by ReadDensity when the file carries no physical
// resolution.
var ErrNoDensity = errors.New("no density metadata")

// Density is a physical resolution in dots per inch.
type Density struct {
	X float64
	Y float64
}

// DPI returns the density that prints resolution pixels across printSize
// millimeters.
func DPI(resolution int, printSize float64) float64 {
	return float64(resolution) / (printSize / MillimetersPerInch)
}

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1

	unitInch       = 2
	unitCentimeter = 3
)

func segment(code byte, payload []byte) []byte {
	seg := []byte{0xFF, code}
	seg = binary.BigEndian.AppendUint16(seg, uint16(len(payload)+2))
	return append(seg, payload...)
}

// jfifSegment builds an APP0 JFIF header. JFIF stores integral densities, so
// the value is rounded.
func jfifSegment(dpi float64) []byte {
	d := uint16(math.Max(1, math.Min(math.Round(dpi), math.MaxUint16)))
	payload := []byte("JFIF\x00")
	payload = append(payload, 1, 1, 1) // version 1.01, units: dots per inch
	payload = binary.BigEndian.AppendUint16(payload, d)
	payload = binary.BigEndian.AppendUint16(payload, d)
	payload = append(payload, 0, 0) // no thumbnail
	return segment(markerAPP0, payload)
}

// resolution approximates dpi as an unsigned EXIF rational.
func resolution(dpi float64) exifcommon.Rational {
	den := float64(maxDenominator)
	if limit := math.Floor(math.MaxUint32 / math.Ceil(dpi)); limit < den {
		den = math.Max(1, limit)
	}
	num := math.Min(math.Round(dpi*den), math.MaxUint32)
	return exifcommon.Rational{Numerator: uint32(num), Denominator: uint32(den)}
}

// buildEXIF encodes an IFD0 holding only the resolution tags.
func buildEXIF(order binary.ByteOrder, x, y exifcommon.Rational, unit uint16) ([]byte, error) {
	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, fmt.Errorf("loading exif ifd mapping: %w", err)
	}
	ib := exif.NewIfdBuilder(im, exif.NewTagIndex(), exifcommon.IfdStandardIfdIdentity, order)

	tags := []struct {
		name  string
		value any
	}{
		{"XResolution", []exifcommon.Rational{x}},
		{"YResolution", []exifcommon.Rational{y}},
		{"ResolutionUnit", []uint16{unit}},
	}
	for _, tag := range tags {
		if err := ib.AddStandardWithName(tag.name, tag.value); err != nil {
			return nil, fmt.Errorf("setting exif %s: %w", tag.name, err)
		}
	}

	tiff, err := exif.NewIfdByteEncoder().EncodeToExif(ib)
	if err != nil {
		return nil, fmt.Errorf("encoding exif: %w", err)
	}
	return segment(markerAPP1, append([]byte(exifHeader), tiff...)), nil
}

// exifSegment builds an APP1 EXIF block carrying dpi in inches.
func exifSegment(dpi float64) ([]byte, error) {
	r := resolution(dpi)
	return buildEXIF(exifcommon.EncodeDefaultByteOrder, r, r, unitInch)
}

// ReadDensity scans the JPEG headers in r for a physical resolution. EXIF
// rationals are preferred over the integral JFIF density.
func ReadDensity(r io.Reader) (Density, error) {
	br := bufio.NewReader(r)

	var soi [2]byte
	if _, err := io.ReadFull(br, soi[:]); err != nil {
		return Density{}, fmt.Errorf("reading jpeg header: %w", err)
	}
	if soi[0] != 0xFF || soi[1] != markerSOI {
		return Density{}, errors.New("not a jpeg stream")
	}

	var fromJFIF, fromEXIF *Density
	for {
		b, err := br.ReadByte()
		if err != nil {
			return Density{}, fmt.Errorf("reading jpeg marker: %w", err)
		}
		if b != 0xFF {
			return Density{}, fmt.Errorf("invalid jpeg marker prefix 0x%02X", b)
		}
		code := byte(0xFF)
		for code == 0xFF {
			if code, err = br.ReadByte(); err != nil {
				return Density{}, fmt.Errorf("reading jpeg marker: %w", err)
			}
		}
		if code == markerSOS || code == markerEOI {
			break
		}
		if code == 0x01 || (code >= 0xD0 && code <= 0xD7) {
			continue
		}

		var lenBuf [2]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			return Density{}, fmt.Errorf("reading segment length: %w", err)
		}
		n := int(binary.BigEndian.Uint16(lenBuf[:])) - 2
		if n < 0 {
			return Density{}, fmt.Errorf("invalid segment length for marker 0x%02X", code)
		}
		payload := make([]byte, n)
		if _, err := io.ReadFull(br, payload); err != nil {
			return Density{}, fmt.Errorf("reading segment 0x%02X: %w", code, err)
		}

		switch code {
		case markerAPP0:
			if d, ok := parseJFIF(payload); ok {
				fromJFIF = &d
			}
		case markerAPP1:
			if d, ok := parseEXIF(payload); ok {
				fromEXIF = &d
			}
		}
	}

	switch {
	case fromEXIF != nil:
		return *fromEXIF, nil
	case fromJFIF != nil:
		return *fromJFIF, nil
	default:
		return Density{}, ErrNoDensity
	}
}

func parseJFIF(p []byte) (Density, bool) {
	if len(p) < 12 || string(p[:5]) != "JFIF\x00" {
		return Density{}, false
	}
	x := float64(binary.BigEndian.Uint16(p[8:10]))
	y := float64(binary.BigEndian.Uint16(p[10:12]))
	switch p[7] {
	case 1:
		return Density{X: x, Y: y}, true
	case 2:
		return Density{X: x * 2.54, Y: y * 2.54}, true
	default:
		return Density{}, false
	}
}

func parseEXIF(p []byte) (Density, bool) {
	if !bytes.HasPrefix(p, []byte(exifHeader)) {
		return Density{}, false
	}
	x, err := goexif.Decode(bytes.NewReader(p[len(exifHeader):]))
	if err != nil {
		return Density{}, false
	}

	rational := func(name goexif.FieldName) (float64, bool) {
		tag, err := x.Get(name)
		if err != nil {
			return 0, false
		}
		num, den, err := tag.Rat2(0)
		if err != nil || den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	}

	var d Density
	var ok bool
	if d.X, ok = rational(goexif.XResolution); !ok {
		return Density{}, false
	}
	if d.Y, ok = rational(goexif.YResolution); !ok {
		return Density{}, false
	}
	if tag, err := x.Get(goexif.ResolutionUnit); err == nil {
		if unit, err := tag.Int(0); err == nil && unit == unitCentimeter {
			d.X *= 2.54
			d.Y *= 2.54
		}
	}
	return d, true
}
