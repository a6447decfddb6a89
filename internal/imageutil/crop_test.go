package imageutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

func encodeTestImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeDims(t *testing.T, b64 string) (int, int) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode image: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestCropBase64(t *testing.T) {
	b64 := encodeTestImage(t, 200, 100)
	out, ok := CropBase64(b64, spec.Region{X: 50, Y: 25, Width: 100, Height: 50})
	if !ok {
		t.Fatalf("crop failed")
	}
	w, h := decodeDims(t, out)
	if w != 100 || h != 50 {
		t.Fatalf("cropped dims = %dx%d, want 100x50", w, h)
	}
}

func TestCropBase64ScalesScreenCoordinates(t *testing.T) {
	// Image is half the reported screen resolution; region must be scaled.
	b64 := encodeTestImage(t, 100, 50)
	out, ok := CropBase64(b64, spec.Region{
		X: 0, Y: 0, Width: 100, Height: 50,
		ScreenWidth: 200, ScreenHeight: 100,
	})
	if !ok {
		t.Fatalf("crop failed")
	}
	w, h := decodeDims(t, out)
	if w != 50 || h != 25 {
		t.Fatalf("cropped dims = %dx%d, want 50x25", w, h)
	}
}

func TestCropBase64BadInput(t *testing.T) {
	if _, ok := CropBase64("not base64!!", spec.Region{Width: 10, Height: 10}); ok {
		t.Fatalf("expected failure on invalid base64")
	}
	if _, ok := CropBase64(base64.StdEncoding.EncodeToString([]byte("nope")), spec.Region{Width: 10, Height: 10}); ok {
		t.Fatalf("expected failure on non-image bytes")
	}
}
