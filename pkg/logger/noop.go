package logger

// NoopLogger discards all messages
type NoopLogger struct{}

// NewNoop creates a logger that prints nothing
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(msg string, args ...interface{}) {}
func (l *NoopLogger) Info(msg string, args ...interface{})  {}
func (l *NoopLogger) Warn(msg string, args ...interface{})  {}
func (l *NoopLogger) Error(msg string, args ...interface{}) {}

// WithComponent returns the same logger
func (l *NoopLogger) WithComponent(component string) Logger {
	return l
}
