package worker

import "github.com/okian/novacat/pkg/logger"

// Option configures an Ingester.
type Option func(*Ingester)

// WithName sets the worker's name, used in logs.
func WithName(name string) Option {
	return func(w *Ingester) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets the worker's logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Ingester) {
		if l != nil {
			w.log = l
		}
	}
}
