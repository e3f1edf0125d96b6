package logger

import (
	"go.uber.org/zap"
)

// New returns a JSON production logger for production and staging and a
// console development logger otherwise.
func New(appEnv string) (*zap.Logger, error) {
	if appEnv == "production" || appEnv == "staging" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// OrNop lets constructors accept a nil logger.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
