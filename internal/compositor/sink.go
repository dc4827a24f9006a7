package compositor

import "go.uber.org/zap"

// LogSink reports section faults to the application log
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates an error sink backed by zap
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Report logs a section fault
func (s *LogSink) Report(section string, err error) {
	s.logger.Error("Section fault", zap.String("section", section), zap.Error(err))
}
