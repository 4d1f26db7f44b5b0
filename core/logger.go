package core

// Logger logs locally and (in production) reports to the error tracker.
// args may carry an error, a map of extra context, or the acting admin user.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
