package elisa

import "go.uber.org/zap"

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used by the world and its bus.
func WithLogger(logger *zap.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithIDProvider sets the provider the world uses for entities it creates.
// Components and messages keep using the process-wide provider.
func WithIDProvider(p IDProvider) Option {
	return func(w *World) {
		if p != nil {
			w.ids = p
		}
	}
}

// WithCapacity preallocates room for n entities.
func WithCapacity(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.capacity = n
		}
	}
}
