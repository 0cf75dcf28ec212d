package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// ResizeImage decodes r, scales it down to fit maxSize on its longest side
// and re-encodes it in its original format. The returned extension has no
// leading dot.
func ResizeImage(r io.Reader, filename string, maxSize uint) ([]byte, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", ErrUnsupportedImage
	}

	bounds := img.Bounds()
	width, height := uint(bounds.Dx()), uint(bounds.Dy())
	if width > maxSize || height > maxSize {
		if width >= height {
			img = resize.Resize(maxSize, 0, img, resize.Lanczos3)
		} else {
			img = resize.Resize(0, maxSize, img, resize.Lanczos3)
		}
	}

	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	}

	var buf bytes.Buffer
	if err := EncodeImage(img, format, &buf, 85); err != nil {
		return nil, "", err
	}

	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	return buf.Bytes(), ext, nil
}

func EncodeImage(img image.Image, format string, writer io.Writer, quality int) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(writer, img)
	default:
		return ErrUnsupportedImage
	}
}

func IsValidImageFormat(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, format := range AllowedImageTypes {
		if ext == format {
			return true
		}
	}
	return false
}

// ContentTypeForExt maps an image extension to its MIME type.
func ContentTypeForExt(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
