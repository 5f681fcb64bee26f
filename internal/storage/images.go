package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const previewMaxDim = 480

// IsImage reports whether a preview can be generated for the type.
func IsImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

// Preview decodes src and re-encodes it as a webp thumbnail capped at
// previewMaxDim on the longer side.
func Preview(src []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		// webp sources are not registered with image.Decode.
		img, err = webp.Decode(bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("decode preview source: %w", err)
		}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > previewMaxDim || h > previewMaxDim {
		if w >= h {
			h = h * previewMaxDim / w
			w = previewMaxDim
		} else {
			w = w * previewMaxDim / h
			h = previewMaxDim
		}
		if h < 1 {
			h = 1
		}
		if w < 1 {
			w = 1
		}

		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return out.Bytes(), nil
}
