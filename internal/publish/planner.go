package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"folio/internal/album"
	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/templates"
)

// DefaultTemplate is used when neither the caller, the album record nor the
// configuration names a template.
const DefaultTemplate = "default"

// Renderer renders album data into a destination.
type Renderer interface {
	PublishTo(ctx context.Context, req templates.Request) (templates.Report, error)
}

// Resolver finds a renderer by template identifier.
type Resolver interface {
	Find(identifier string) (Renderer, error)
}

type templatesResolver struct {
	inner *templates.Resolver
}

func (r templatesResolver) Find(identifier string) (Renderer, error) {
	tpl, err := r.inner.Find(identifier)
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

// FromTemplates adapts a template resolver for the planner.
func FromTemplates(r *templates.Resolver) Resolver {
	return templatesResolver{inner: r}
}

// Options controls a single Publish call.
type Options struct {
	// Template overrides the album record and configured default.
	Template string
	// Destination overrides the album record. Relative paths resolve
	// against the album directory.
	Destination string
	Force       bool
	// Save writes the resolved template and destination to the album record
	// after a successful render.
	Save bool
	// Listeners receive progress for this call only, in slice order.
	Listeners []Listener
}

// Result describes a finished publish, successful or not.
type Result struct {
	RunID       string
	Template    string
	Destination string
	Images      int
	Copied      int
	Skipped     int
	Pages       int
	Force       bool
	Saved       bool
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Planner publishes one album. It is not safe for concurrent use.
type Planner struct {
	album           *album.Album
	resolver        Resolver
	defaultTemplate string
	verifyCopies    bool
	logger          *slog.Logger
	state           State
	now             func() time.Time
}

// NewPlanner builds a planner for a. cfg supplies the default template and
// copy verification; a nil cfg uses built-in defaults.
func NewPlanner(a *album.Album, resolver Resolver, cfg *config.Config, logger *slog.Logger) *Planner {
	p := &Planner{
		album:           a,
		resolver:        resolver,
		defaultTemplate: DefaultTemplate,
		logger:          logging.NewComponentLogger(logger, "publish"),
		state:           StateIdle,
		now:             time.Now,
	}
	if cfg != nil {
		if name := strings.TrimSpace(cfg.Publish.DefaultTemplate); name != "" {
			p.defaultTemplate = name
		}
		p.verifyCopies = cfg.Publish.VerifyCopies
	}
	return p
}

// State returns the planner's current state.
func (p *Planner) State() State { return p.state }

// Publish resolves a template and destination, renders the album and, when
// opts.Save is set, persists the resolved choices. The returned Result is
// populated as far as the publish got, including on error.
func (p *Planner) Publish(ctx context.Context, opts Options) (Result, error) {
	result := Result{
		RunID:     uuid.NewString(),
		Force:     opts.Force,
		StartedAt: p.now(),
	}
	ctx = logging.ContextWithRunID(logging.ContextWithAlbum(ctx, p.album.Path()), result.RunID)
	logger := logging.WithContext(ctx, p.logger)
	out := &fanout{listeners: opts.Listeners, logger: logger}

	finish := func(err error) (Result, error) {
		result.FinishedAt = p.now()
		if err != nil {
			logger.Debug("publish failed", logging.String(logging.FieldStage, string(p.state)), logging.Error(err))
			p.state = StateFailed
			return result, err
		}
		p.state = StateDone
		out.notify(Scope{Stage: StateDone}, fmt.Sprintf("published %d images to %s", result.Images, result.Destination))
		logger.Info("album published",
			logging.String("template", result.Template),
			logging.String("destination", result.Destination),
			logging.Int("copied", result.Copied),
			logging.Int("skipped", result.Skipped),
			logging.Duration("duration", result.FinishedAt.Sub(result.StartedAt)))
		return result, nil
	}

	p.transition(out, StateResolvingTemplate, "resolving template")
	identifier, renderer, err := p.resolveTemplate(opts.Template)
	result.Template = identifier
	if err != nil {
		return finish(err)
	}
	p.album.SetTemplate(identifier)
	out.notify(Scope{Stage: StateResolvingTemplate}, "using template "+identifier)

	p.transition(out, StateResolvingDestination, "resolving destination")
	destination, resolved, err := p.resolveDestination(opts.Destination)
	if err != nil {
		return finish(err)
	}
	p.album.SetDestination(destination)
	result.Destination = resolved
	out.notify(Scope{Stage: StateResolvingDestination}, "publishing to "+resolved)

	p.transition(out, StateRendering, "rendering")
	images, err := p.album.Images(ctx)
	if err != nil {
		return finish(&RenderError{Template: identifier, Destination: resolved, Err: err})
	}
	result.Images = len(images)
	report, err := renderer.PublishTo(ctx, templates.Request{
		Destination: resolved,
		Album:       templates.NewAlbumData(p.album.Title(), p.album.Subtitle(), p.album.Description(), images),
		Force:       opts.Force,
		Verify:      p.verifyCopies,
		Progress: func(image, message string) {
			out.notify(Scope{Stage: StateRendering, Image: image}, message)
		},
	})
	result.Copied = report.Copied
	result.Skipped = report.Skipped
	result.Pages = report.Pages
	if err != nil {
		return finish(&RenderError{Template: identifier, Destination: resolved, Err: err})
	}

	if opts.Save {
		p.transition(out, StateSaving, "saving album record")
		if err := p.album.Write(); err != nil {
			return finish(err)
		}
		result.Saved = true
	}
	return finish(nil)
}

func (p *Planner) resolveTemplate(explicit string) (string, Renderer, error) {
	identifier := firstNonEmpty(explicit, p.album.Template(), p.defaultTemplate)
	if identifier == "" {
		return "", nil, &TemplateResolutionError{Err: errNoTemplate}
	}
	if p.resolver == nil {
		return identifier, nil, &TemplateResolutionError{Identifier: identifier, Err: errNoTemplate}
	}
	renderer, err := p.resolver.Find(identifier)
	if err != nil {
		return identifier, nil, &TemplateResolutionError{Identifier: identifier, Err: err}
	}
	if renderer == nil {
		return identifier, nil, &TemplateResolutionError{Identifier: identifier, Err: templates.ErrTemplateNotFound}
	}
	return identifier, renderer, nil
}

// resolveDestination returns the destination as given and its absolute form.
func (p *Planner) resolveDestination(explicit string) (string, string, error) {
	destination := firstNonEmpty(explicit, p.album.Destination())
	if destination == "" {
		return "", "", &MissingDestinationError{Album: p.album.Path()}
	}
	resolved := destination
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(p.album.Path(), resolved)
	}
	return destination, filepath.Clean(resolved), nil
}

func (p *Planner) transition(out *fanout, next State, message string) {
	p.state = next
	out.logger.Debug("publish stage", logging.String(logging.FieldStage, string(next)))
	out.notify(Scope{Stage: next}, message)
}

// fanout delivers notifications to the listeners of one Publish call.
type fanout struct {
	listeners []Listener
	logger    *slog.Logger
}

func (f *fanout) notify(scope Scope, message string) {
	for idx, listener := range f.listeners {
		if listener == nil {
			continue
		}
		f.deliver(idx, listener, scope, message)
	}
}

func (f *fanout) deliver(idx int, listener Listener, scope Scope, message string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logging.WarnWithContext(f.logger, "publish listener panicked", "listener_panic",
				logging.Int("listener", idx),
				logging.String(logging.FieldStage, scope.String()),
				logging.Any("panic", recovered),
				logging.String(logging.FieldErrorHint, "fix or remove the listener"),
				logging.String(logging.FieldImpact, "listener missed a progress message; publish continued"),
			)
		}
	}()
	if err := listener.Notify(scope, message); err != nil {
		logging.WarnWithContext(f.logger, "publish listener failed", "listener_failed",
			logging.Int("listener", idx),
			logging.String(logging.FieldStage, scope.String()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "listener missed a progress message; publish continued"),
		)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
