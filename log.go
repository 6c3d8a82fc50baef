package tdms

import "go.uber.org/zap"

// NewProductionLogger builds a sugared zap logger suitable for passing to
// WithLogger outside of tests — JSON output at info level and above.
func NewProductionLogger() (*zap.SugaredLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// NewDevelopmentLogger builds a sugared zap logger with human-readable
// console output at debug level and above, for CLI and test use.
func NewDevelopmentLogger() (*zap.SugaredLogger, error) {
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// nopLogger is the fallback used whenever a caller passes a nil logger to
// an OptionFunc or constructor, so the rest of the package never has to
// nil-check before logging.
func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
