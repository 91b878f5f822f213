package logging

import "go.uber.org/zap"

// New builds the application logger.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
