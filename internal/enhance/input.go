package enhance

import (
	"errors"

	"github.com/creatorstation/imgenhancer/pkg/dataurl"
	v "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultMethod    = "unsharp_mask"
	DefaultIntensity = 50
	MinIntensity     = 0
	MaxIntensity     = 100
)

// Methods lists the filters the enhancement service accepts.
var Methods = []string{
	"unsharp_mask",
	"high_boost",
	"laplacian",
	"sobel",
	"prewitt",
	"gaussian_blur",
	"median_blur",
	"emboss",
	"sepia",
	"invert",
	"box_blur",
	"bilateral_filter",
	"cartoon",
	"pencil_sketch",
	"canny",
	"threshold",
	"clahe",
}

// Request is the JSON body sent to the enhancement endpoint.
type Request struct {
	Image     string `json:"image"`
	Method    string `json:"method"`
	Intensity int    `json:"intensity"`
}

func (r Request) Validate() error {
	return v.ValidateStruct(&r,
		v.Field(&r.Image, v.Required, v.By(imageDataURL)),
		v.Field(&r.Method, v.Required, v.In(methodValues()...)),
		v.Field(&r.Intensity, v.Min(MinIntensity), v.Max(MaxIntensity)),
	)
}

// Response is the JSON body returned by the enhancement endpoint.
type Response struct {
	Status  string `json:"status"`
	Image   string `json:"image"`
	Message string `json:"message,omitempty"`
}

func imageDataURL(value interface{}) error {
	s, _ := value.(string)
	if _, err := dataurl.DecodeImage(s); err != nil {
		return errors.New("must be an image data URL")
	}
	return nil
}

func methodValues() []interface{} {
	out := make([]interface{}, len(Methods))
	for i, m := range Methods {
		out[i] = m
	}
	return out
}
