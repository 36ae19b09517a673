package logger

import (
	"go.uber.org/zap"
)

// New builds a production logger writing to the given file. The TUI
// owns stdout, so everything goes to the log file.
func New(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

// Nop returns a no-op logger for tests and for callers that have no
// log destination yet.
func Nop() *zap.Logger {
	return zap.NewNop()
}
