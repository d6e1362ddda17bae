package tree

// Config controls how aggregates map onto nodes.
type Config struct {
	// ArrayPolymorphism writes sealed unions as [discriminator, payload]
	// lists instead of {type, value} maps. Such lists decode positionally.
	ArrayPolymorphism bool
	// IgnoreUnknownKeys skips map keys the descriptor does not declare
	// instead of failing with ErrUnknownKey.
	IgnoreUnknownKeys bool
}

// Option mutates a Config.
type Option func(*Config)

// WithArrayPolymorphism enables Config.ArrayPolymorphism.
func WithArrayPolymorphism() Option {
	return func(c *Config) { c.ArrayPolymorphism = true }
}

// WithIgnoreUnknownKeys enables Config.IgnoreUnknownKeys.
func WithIgnoreUnknownKeys() Option {
	return func(c *Config) { c.IgnoreUnknownKeys = true }
}

// NewConfig applies opts to the zero Config.
func NewConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
