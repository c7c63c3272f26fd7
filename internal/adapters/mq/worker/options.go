package worker

import (
	"github.com/meritworks/ampgsti/pkg/logger"
)

// Option applies a configuration option to the AdmissionWorker.
type Option func(*AdmissionWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *AdmissionWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *AdmissionWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
