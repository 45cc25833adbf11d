package bin

import "go.uber.org/zap"

// Option is a function that configures a Bin.
type Option func(*Bin) error

// ErrorHandler receives cleanup failures that cannot be returned to the
// caller, such as the disposal of an item replaced by Add.
type ErrorHandler func(key string, err error)

// WithKeyGenerator sets the generator used for items added without a key.
func WithKeyGenerator(gen KeyGenerator) Option {
	return func(b *Bin) error {
		if gen == nil {
			return &InvalidOptionError{Option: "WithKeyGenerator", Reason: "generator cannot be nil"}
		}
		b.keys = gen
		return nil
	}
}

// WithLogger sets the logger for this bin instead of the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bin) error {
		if l == nil {
			return &InvalidOptionError{Option: "WithLogger", Reason: "logger cannot be nil"}
		}
		b.log = l
		return nil
	}
}

// WithErrorHandler sets the handler for cleanup failures raised while adding
// items. By default they are logged at warn level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(b *Bin) error {
		b.onError = h
		return nil
	}
}
