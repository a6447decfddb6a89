// Package imageutil crops base64 screenshots to a selected region before a
// translation model call. The region arrives in screen coordinates; when the
// screenshot resolution differs from the reported screen size, coordinates
// are scaled accordingly.
package imageutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"

	_ "image/png"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

const jpegQuality = 85

// CropBase64 returns the region of a base64-encoded screenshot re-encoded as
// base64 JPEG. Any decode or bounds problem yields ("", false); callers keep
// the uncropped screenshot then.
func CropBase64(b64 string, region spec.Region) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", false
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", false
	}

	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()

	w := region.Width
	if w <= 0 {
		w = imgW
	}
	h := region.Height
	if h <= 0 {
		h = imgH
	}
	screenW := region.ScreenWidth
	screenH := region.ScreenHeight
	if screenW <= 0 || screenH <= 0 {
		screenW, screenH = imgW, imgH
	}

	scaleX := float64(imgW) / float64(screenW)
	scaleY := float64(imgH) / float64(screenH)

	left := clamp(int(float64(region.X)*scaleX), 0, imgW)
	top := clamp(int(float64(region.Y)*scaleY), 0, imgH)
	right := clamp(int(float64(region.X+w)*scaleX), left+1, imgW)
	bottom := clamp(int(float64(region.Y+h)*scaleY), top+1, imgH)
	if right <= left || bottom <= top {
		return "", false
	}

	rect := image.Rect(left+bounds.Min.X, top+bounds.Min.Y, right+bounds.Min.X, bottom+bounds.Min.Y)
	cropped := cropImage(img, rect)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), true
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func cropImage(img image.Image, rect image.Rectangle) image.Image {
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect)
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			out.Set(x, y, img.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
