package internal

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerOnce sync.Once
	logger     *zap.SugaredLogger
	debugMode  bool
)

// SetDebug switches the process logger to development output. It must be
// called before the first GetLogger call to have any effect.
func SetDebug(debug bool) {
	debugMode = debug
}

// GetLogger returns the process-wide sugared logger.
func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		var base *zap.Logger
		var err error
		if debugMode {
			base, err = zap.NewDevelopment()
		} else {
			base, err = zap.NewProduction()
		}
		if err != nil {
			base = zap.NewNop()
		}
		logger = base.Sugar()
	})
	return logger
}
