package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	data := encodeTestPNG(t, 16, 8)

	decoded, err := Decode(data, "photo.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width != 16 || decoded.Height != 8 {
		t.Errorf("expected 16x8, got %dx%d", decoded.Width, decoded.Height)
	}
	if decoded.Format != FormatPNG {
		t.Errorf("expected PNG format, got %s", decoded.Format)
	}
	if len(decoded.Pixels) != 16*8*3 {
		t.Errorf("expected pixel buffer length %d, got %d", 16*8*3, len(decoded.Pixels))
	}
	if decoded.ExifEntryCount != 0 {
		t.Errorf("expected 0 EXIF entries for a PNG without eXIf, got %d", decoded.ExifEntryCount)
	}
}

func TestDecodeJPEG(t *testing.T) {
	data := encodeTestJPEG(t, 20, 20)

	decoded, err := Decode(data, "photo.jpg")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width != 20 || decoded.Height != 20 {
		t.Errorf("expected 20x20, got %dx%d", decoded.Width, decoded.Height)
	}
	if decoded.Format != FormatJPEG {
		t.Errorf("expected JPEG format, got %s", decoded.Format)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	if _, err := Decode(nil, "x.png"); err != ErrEmptyInput {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	data := []byte("not an image, just plain bytes padded out long enough")
	if _, err := Decode(data, "x.bmp"); err == nil {
		t.Error("expected an error decoding an unsupported format")
	}
}

func TestFilenameIndependence(t *testing.T) {
	data := encodeTestPNG(t, 12, 12)

	a, err := Decode(data, "vacation.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, err := Decode(data, "midjourney_ai_generated_001.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if a.Width != b.Width || a.Height != b.Height || a.ExifEntryCount != b.ExifEntryCount {
		t.Error("decoded image fields must not depend on filename")
	}
	if !bytes.Equal(a.Pixels, b.Pixels) {
		t.Error("pixel buffers must not depend on filename")
	}
}

func TestToImageRoundTrip(t *testing.T) {
	data := encodeTestPNG(t, 10, 10)
	decoded, err := Decode(data, "x.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	img := decoded.ToImage()
	encoded, err := EncodeJPEG(img, 85)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	if len(encoded) == 0 {
		t.Error("expected non-empty re-encoded JPEG bytes")
	}
}
