package img

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/sunshineplan/imgconv"
)

// Downscale shrinks imageData to at most maxMPXS megapixels and re-encodes it
// as PNG. Images already within the limit are returned untouched with
// resized set to false.
func Downscale(imageData []byte, maxMPXS float64) (out []byte, resized bool, err error) {
	src, err := imgconv.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, false, fmt.Errorf("error decoding image: %v", err)
	}

	bounds := src.Bounds()
	width := bounds.Max.X - bounds.Min.X
	height := bounds.Max.Y - bounds.Min.Y
	currentMPXS := float64(width*height) / 1000000.0

	if maxMPXS <= 0 || currentMPXS <= maxMPXS {
		return imageData, false, nil
	}

	ratio := math.Sqrt(maxMPXS / currentMPXS)
	newWidth := int(float64(width) * ratio)
	newHeight := int(float64(height) * ratio)

	dst := imgconv.Resize(src, &imgconv.ResizeOption{
		Width:  newWidth,
		Height: newHeight,
	})

	var buf bytes.Buffer
	if err := imgconv.Write(&buf, dst, &imgconv.FormatOption{Format: imgconv.PNG}); err != nil {
		return nil, false, fmt.Errorf("error encoding PNG: %v", err)
	}

	return buf.Bytes(), true, nil
}

// PNG converts imageData to PNG. PNG input is returned as is.
func PNG(imageData []byte) ([]byte, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err == nil && format == "png" {
		return imageData, nil
	}

	src, err := imgconv.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %v", err)
	}

	var buf bytes.Buffer
	if err := imgconv.Write(&buf, src, &imgconv.FormatOption{Format: imgconv.PNG}); err != nil {
		return nil, fmt.Errorf("error encoding PNG: %v", err)
	}

	return buf.Bytes(), nil
}
