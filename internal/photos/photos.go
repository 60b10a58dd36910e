package photos

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// hashLen is the number of hex characters kept from the content hash.
// 24 hex chars = 96 bits, plenty for batches of a few hundred photos.
const hashLen = 24

// maxThumbDim caps both thumbnail dimensions.
const maxThumbDim = 300

// thumbQuality is the JPEG quality used for display thumbnails.
const thumbQuality = 85

// Photo is one ingested product image. Immutable once created; referenced
// by its Hash everywhere else in the pipeline.
type Photo struct {
	Hash      string `json:"hash"`
	Filename  string `json:"filename"`
	Format    string `json:"format"`
	Bytes     []byte `json:"-"`
	Thumbnail []byte `json:"-"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// DecodeError reports image bytes that could not be decoded. The offending
// file is excluded from the batch; other files keep processing.
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode image %q: %v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Hash returns the content identifier for raw image bytes. Byte-identical
// uploads always collapse to the same identifier.
func Hash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:hashLen]
}

// Ingest decodes raw image bytes into a Photo with a content hash and a
// display thumbnail. Returns a *DecodeError if the bytes are not a readable
// image.
func Ingest(raw []byte, filename string) (Photo, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Photo{}, &DecodeError{Filename: filename, Err: err}
	}

	bounds := img.Bounds()
	thumb, err := encodeThumbnail(img)
	if err != nil {
		return Photo{}, &DecodeError{Filename: filename, Err: err}
	}

	return Photo{
		Hash:      Hash(raw),
		Filename:  filename,
		Format:    format,
		Bytes:     raw,
		Thumbnail: thumb,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

// encodeThumbnail proportionally downscales img so neither dimension exceeds
// maxThumbDim, then re-encodes as JPEG. Images already small enough are
// re-encoded at their original size.
func encodeThumbnail(img image.Image) ([]byte, error) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	tw, th := thumbSize(w, h)
	if tw != w || th != h {
		dst := image.NewRGBA(image.Rect(0, 0, tw, th))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// thumbSize returns the proportional dimensions with both sides <= maxThumbDim.
func thumbSize(w, h int) (int, int) {
	if w <= maxThumbDim && h <= maxThumbDim {
		return w, h
	}
	if w >= h {
		th := h * maxThumbDim / w
		if th < 1 {
			th = 1
		}
		return maxThumbDim, th
	}
	tw := w * maxThumbDim / h
	if tw < 1 {
		tw = 1
	}
	return tw, maxThumbDim
}
