package publish

import (
	"errors"
	"fmt"
)

// ErrMissingDestination indicates neither the caller nor the album record
// named a destination.
var ErrMissingDestination = errors.New("no publish destination configured")

// errNoTemplate is wrapped when every template source is empty.
var errNoTemplate = errors.New("no template configured")

// ErrorClassifier lets callers map failures to exit codes without knowing
// the concrete error types.
type ErrorClassifier interface {
	ErrorKind() string
}

const (
	KindConfiguration = "configuration"
	KindRender        = "render"
	KindPersistence   = "persistence"
)

// Kind returns the ErrorKind of the first classified error in err's chain,
// or "" when none is classified.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return ""
}

// TemplateResolutionError reports that no template could be resolved. It is
// returned before anything is written to the destination.
type TemplateResolutionError struct {
	Identifier string
	Err        error
}

func (e *TemplateResolutionError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("resolve template: %v", e.Err)
	}
	return fmt.Sprintf("resolve template %q: %v", e.Identifier, e.Err)
}

func (e *TemplateResolutionError) Unwrap() error { return e.Err }

func (e *TemplateResolutionError) ErrorKind() string { return KindConfiguration }

// MissingDestinationError reports that no destination was given.
type MissingDestinationError struct {
	Album string
}

func (e *MissingDestinationError) Error() string {
	return fmt.Sprintf("%s: %v (pass a destination or save one on the album)", e.Album, ErrMissingDestination)
}

func (e *MissingDestinationError) Unwrap() error { return ErrMissingDestination }

func (e *MissingDestinationError) ErrorKind() string { return KindConfiguration }

// RenderError wraps a failure reported while rendering into the destination.
type RenderError struct {
	Template    string
	Destination string
	Err         error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s into %s: %v", e.Template, e.Destination, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) ErrorKind() string { return KindRender }
