package logging

import "go.uber.org/zap"

// New builds the application logger: console output in development, JSON
// otherwise.
func New(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
