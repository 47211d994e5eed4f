package media

import (
	"github.com/creatorstation/imgenhancer/internal/enhance"
	v "github.com/go-ozzo/ozzo-validation/v4"
)

type ApplyBody struct {
	Method    string `json:"method"`
	Intensity *int   `json:"intensity"`
}

func (b ApplyBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Method, v.In(methodValues()...)),
		v.Field(&b.Intensity, v.Min(enhance.MinIntensity), v.Max(enhance.MaxIntensity)),
	)
}

// Resolved fills in the service defaults for omitted fields.
func (b ApplyBody) Resolved() (string, int) {
	method, intensity := b.Method, enhance.DefaultIntensity
	if method == "" {
		method = enhance.DefaultMethod
	}
	if b.Intensity != nil {
		intensity = *b.Intensity
	}
	return method, intensity
}

func methodValues() []interface{} {
	out := make([]interface{}, len(enhance.Methods))
	for i, m := range enhance.Methods {
		out[i] = m
	}
	return out
}
