package panel

import (
	"errors"

	"github.com/creatorstation/imgenhancer/internal/enhance"
)

var (
	ErrInvalidImage    = errors.New("not an image file")
	ErrNoImage         = errors.New("no image loaded")
	ErrBusy            = errors.New("an enhancement is already running")
	ErrStaleResult     = errors.New("image changed while enhancing, result discarded")
	ErrSessionNotFound = errors.New("session not found")
	ErrHistoryNotFound = errors.New("history entry not found")
	ErrProcessingImage = errors.New("could not process the image")
)

// UserMessage returns the alert text shown for err.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidImage):
		return "Please drop a valid image file!"
	case errors.Is(err, enhance.ErrEnhanceFailed), errors.Is(err, enhance.ErrInvalidRequest):
		return "Error enhancing the image. Please try again."
	case errors.Is(err, ErrProcessingImage):
		return "Error processing the image. Please try again."
	case errors.Is(err, ErrBusy):
		return "Please wait for the current enhancement to finish."
	default:
		return err.Error()
	}
}
