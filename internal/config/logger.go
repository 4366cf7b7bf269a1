// internal/config/logger.go
package config

import "go.uber.org/zap"

// NewLogger builds the process-wide sugared logger.
func NewLogger() (*zap.SugaredLogger, error) {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stdout"}

	logger, err := logCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
