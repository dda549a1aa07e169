package publish

// Scope identifies the step a notification belongs to.
type Scope struct {
	Stage State
	// Image is the image filename for per-image steps, empty otherwise.
	Image string
}

func (s Scope) String() string {
	if s.Image == "" {
		return string(s.Stage)
	}
	return string(s.Stage) + ":" + s.Image
}

// Listener receives publish progress. Returned errors are logged and ignored.
type Listener interface {
	Notify(scope Scope, message string) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(scope Scope, message string) error

// Notify calls f.
func (f ListenerFunc) Notify(scope Scope, message string) error {
	return f(scope, message)
}
