package elastictiny

import "testing"

// Light smoke tests ensuring exported logger APIs do not panic and remain
// callable. If richer logging behavior (format, sinks, filtering) is added
// later, expand assertions here.
func TestSimpleLoggerLevels(t *testing.T) {
	logger := NewSimpleLogger()

	logger.Debug("debug message")
	logger.Info("info message", "requestID", "req-1")
	logger.Warn("warn message", "attempt", 2)
	logger.Error("error message", "code", 503)
}

func TestSimpleLoggerReusability(t *testing.T) {
	logger := NewSimpleLogger()
	for i := 0; i < 5; i++ {
		logger.Info("loop message", "iteration", i)
	}
}

func TestSimpleLoggerOddKeyValues(t *testing.T) {
	logger := NewSimpleLogger()
	// A trailing key without a value must not panic.
	logger.Info("message", "dangling")
}
