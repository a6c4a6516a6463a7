package core

// Logger reports application events; the Error path is expected to ship
// errors to an external monitor in non-debug environments.
// expected args fmt: error, map[string]interface{}, user.User
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Notifier is the user-facing signal surface (the toast analog): every
// mutation outcome goes through here, independently of Logger.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}
