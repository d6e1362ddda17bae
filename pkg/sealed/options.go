package sealed

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type options struct {
	logger   *zap.Logger
	validate *validator.Validate
	strict   bool
}

// Option configures a Codec.
type Option func(*options)

// WithLogger routes resolution failures to logger at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithValidator validates every decoded struct payload with v.
func WithValidator(v *validator.Validate) Option {
	return func(o *options) { o.validate = v }
}

// WithValidation validates decoded struct payloads with a shared default validator.
func WithValidation() Option {
	return WithValidator(defaultValidator())
}

// StrictDiscriminator rejects a repeated "type" element that names a
// different variant than the one already read. By default the last one wins.
func StrictDiscriminator() Option {
	return func(o *options) { o.strict = true }
}
