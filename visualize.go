package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	"github.com/Zelak312/slowmoflow/sourcefield"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type ImageEncoder func(io.Writer, image.Image) error

func EncoderFor(format string) (ImageEncoder, error) {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode, nil
	case "bmp":
		return bmp.Encode, nil
	case "tiff", "tif":
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unknown visualization format %q", format)
	}
}

// RenderSourceField colours each cell by how far its source is from it.
// Red and green hold the x and y displacement around 128, scaled by scale.
// Unset cells are black.
func RenderSourceField(field *sourcefield.SourceField, scale float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, field.Width(), field.Height()))

	for y := 0; y < field.Height(); y++ {
		for x := 0; x < field.Width(); x++ {
			src := field.At(x, y)
			if !src.IsSet {
				img.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}

			img.SetRGBA(x, y, color.RGBA{
				R: displacementChannel(src.FromX-float32(x), scale),
				G: displacementChannel(src.FromY-float32(y), scale),
				B: 255,
				A: 255,
			})
		}
	}

	return img
}

func displacementChannel(d float32, scale float32) uint8 {
	v := math.Round(float64(128 + d*scale))
	return uint8(math.Max(0, math.Min(255, v)))
}

func WriteImage(path string, img image.Image, encode ImageEncoder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := encode(f, img); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
