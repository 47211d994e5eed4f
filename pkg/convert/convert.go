package convert

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/exec"
)

var ErrConverterMissing = errors.New("heif-convert not found in PATH")

// IsHEIC reports whether mediaType is one of the HEIF container types that
// the standard decoders cannot read.
func IsHEIC(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return mt == "image/heic" || mt == "image/heif"
}

// HEICToJPEG converts HEIC input to JPEG with heif-convert.
func HEICToJPEG(input []byte) ([]byte, error) {
	if _, err := exec.LookPath("heif-convert"); err != nil {
		return nil, ErrConverterMissing
	}

	// 1. Create a temporary input file for HEIC data
	inFile, err := os.CreateTemp("", "heic-input-*.heic")
	if err != nil {
		return nil, fmt.Errorf("error creating temp input file: %w", err)
	}
	defer os.Remove(inFile.Name())

	_, err = inFile.Write(input)
	inFile.Close()
	if err != nil {
		return nil, fmt.Errorf("error writing to temp input file: %w", err)
	}

	// 2. Create a temporary output file for the converted JPEG
	outFile, err := os.CreateTemp("", "heic-output-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("error creating temp output file: %w", err)
	}
	outName := outFile.Name()
	outFile.Close()
	defer os.Remove(outName)

	// 3. heif-convert input.heic output.jpg
	cmd := exec.Command("heif-convert", inFile.Name(), outName)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("heif-convert error: %v, details: %s", err, stderr.String())
	}

	outBytes, err := os.ReadFile(outName)
	if err != nil {
		return nil, fmt.Errorf("error reading output file: %w", err)
	}

	return outBytes, nil
}
