package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/image/webp"
)

// ErrEmptyInput is returned when Decode is given zero bytes.
var ErrEmptyInput = errors.New("imaging: empty input")

// DecodedImage is an 8-bit RGB pixel buffer plus the container metadata the
// forensic layers need. Invariant: len(Pixels) == Width*Height*3.
type DecodedImage struct {
	Pixels         []byte // row-major, RGB
	Width          int
	Height         int
	Format         Format
	ColorMode      string
	ExifEntryCount int
	FileSize       int
}

// Decode converts bytes to a DecodedImage. filename is used only as an
// extension hint for diagnostics; it never changes decoded pixels, width,
// height, or EXIF count.
func Decode(data []byte, filename string) (*DecodedImage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	format := SniffFormat(data)

	var img image.Image
	var err error
	var colorMode string

	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
		colorMode = "YCbCr"
	case FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
		colorMode = "RGBA"
	case FormatWEBP:
		img, err = webp.Decode(bytes.NewReader(data))
		colorMode = "YUV"
	default:
		return nil, fmt.Errorf("imaging: unsupported format for %q", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("imaging: decode failed: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imaging: decoded image has non-positive dimensions %dx%d", width, height)
	}

	pixels := make([]byte, width*height*3)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels[i] = byte(r >> 8)
			pixels[i+1] = byte(g >> 8)
			pixels[i+2] = byte(b >> 8)
			i += 3
		}
	}

	return &DecodedImage{
		Pixels:         pixels,
		Width:          width,
		Height:         height,
		Format:         format,
		ColorMode:      colorMode,
		ExifEntryCount: countExifEntries(data, format),
		FileSize:       len(data),
	}, nil
}

// countExifEntries reports the number of EXIF fields the decoder can read,
// 0 on any failure or absence. goexif is the single EXIF source: it reads
// either the JPEG APP1 segment directly or a PNG eXIf chunk's payload.
func countExifEntries(data []byte, format Format) (count int) {
	defer func() {
		if recover() != nil {
			count = 0
		}
	}()

	var payload []byte
	switch format {
	case FormatJPEG:
		payload = data
	case FormatPNG:
		payload = findPNGExifChunk(data)
	default:
		return 0
	}
	if payload == nil {
		return 0
	}

	x, err := exif.Decode(bytes.NewReader(payload))
	if err != nil || x == nil {
		return 0
	}

	counter := &fieldCounter{}
	if err := x.Walk(counter); err != nil {
		return counter.n
	}
	return counter.n
}

// fieldCounter implements exif.Walker, counting every field visited.
type fieldCounter struct {
	n int
}

func (c *fieldCounter) Walk(name exif.FieldName, t *tiff.Tag) error {
	c.n++
	return nil
}

// findPNGExifChunk returns the payload of a PNG eXIf chunk, or nil if absent
// or the file is malformed. PNG chunk payloads are raw TIFF-structured EXIF
// data (no "Exif\0\0" prefix, unlike JPEG APP1).
func findPNGExifChunk(data []byte) []byte {
	if len(data) < 8 {
		return nil
	}
	pos := 8
	for pos+8 <= len(data) {
		length := binary.BigEndian.Uint32(data[pos : pos+4])
		chunkType := string(data[pos+4 : pos+8])
		dataStart := pos + 8
		dataEnd := dataStart + int(length)
		if dataEnd > len(data) || dataEnd < dataStart {
			return nil
		}
		if chunkType == "eXIf" {
			return data[dataStart:dataEnd]
		}
		if chunkType == "IEND" {
			return nil
		}
		pos = dataEnd + 4 // skip CRC
	}
	return nil
}
