// Package registry provides the model registry: applications, their models and
// the field descriptors the DBML generator reads.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrAppNotFound is returned when an app label is not registered.
	ErrAppNotFound = errors.New("no installed app with label")

	// ErrModelNotFound is returned when an app has no model with the given name.
	ErrModelNotFound = errors.New("model not found")

	// ErrUnknownModel is returned when a reference field points at an unregistered model.
	ErrUnknownModel = errors.New("reference to unknown model")

	// ErrInvalidModel is returned when a model lacks its name or app label.
	ErrInvalidModel = errors.New("invalid model")
)

// Registry is a thread-safe, insertion-ordered registry of apps and models.
type Registry struct {
	mu     sync.RWMutex
	apps   []*App
	labels map[string]*App
	models map[string]*Model
}

// NewRegistry creates a new Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		labels: make(map[string]*App),
		models: make(map[string]*Model),
	}
}

// RegisterApp registers an application. Registering a known label updates
// its module path when one is given.
func (r *Registry) RegisterApp(label, module string) *App {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registerApp(label, module)
}

func (r *Registry) registerApp(label, module string) *App {
	if app, ok := r.labels[label]; ok {
		if module != "" {
			app.Module = module
		}
		return app
	}

	app := &App{Label: label, Module: module}
	r.apps = append(r.apps, app)
	r.labels[label] = app
	return app
}

// RegisterModel registers a model under its app, creating the app on first use.
func (r *Registry) RegisterModel(m *Model) error {
	if m == nil || m.Name == "" || m.App == "" {
		return fmt.Errorf("%w: model needs a name and an app label", ErrInvalidModel)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check if already registered
	if _, ok := r.models[m.Label()]; ok {
		return nil
	}

	for _, f := range m.Fields {
		if f.Kind == KindColumn {
			f.Kind = KindOf(f.Type)
		}
	}

	app := r.registerApp(m.App, "")
	app.models = append(app.models, m)
	r.models[m.Label()] = m

	return nil
}

// App retrieves an application by label.
func (r *Registry) App(label string) (*App, error) {
	r.mu.RLock()
	app, ok := r.labels[label]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrAppNotFound, label)
	}

	return app, nil
}

// Model retrieves a model by its "app.Model" label.
func (r *Registry) Model(label string) (*Model, error) {
	appLabel, name, ok := strings.Cut(label, ".")
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an app.Model label", ErrModelNotFound, label)
	}

	app, err := r.App(appLabel)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	m, found := app.Model(name)
	if !found {
		return nil, fmt.Errorf("%w: app '%s' has no model '%s'", ErrModelNotFound, appLabel, name)
	}
	return m, nil
}

// Apps returns all registered apps in registration order.
func (r *Registry) Apps() []*App {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]*App, len(r.apps))
	copy(apps, r.apps)
	return apps
}

// Models returns every registered model: apps in registration order, models
// in registration order within their app.
func (r *Registry) Models() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]*Model, 0, len(r.models))
	for _, app := range r.apps {
		models = append(models, app.models...)
	}
	return models
}

// Has checks if a model label is registered.
func (r *Registry) Has(label string) bool {
	r.mu.RLock()
	_, ok := r.models[label]
	r.mu.RUnlock()

	return ok
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.models)
}

// Clear removes all registered apps and models.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.apps = nil
	r.labels = make(map[string]*App)
	r.models = make(map[string]*Model)
}

// Link resolves the RelatedLabel of every reference field that has no
// Related model yet, on the given models or on every registered model when
// none are given. Bare model names are looked up in the owning app first and
// then across all apps.
func (r *Registry) Link(models ...*Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(models) == 0 {
		for _, app := range r.apps {
			models = append(models, app.models...)
		}
	}

	for _, m := range models {
		for _, f := range m.Fields {
			if !f.Kind.IsReference() || f.Related != nil {
				continue
			}
			related, err := r.resolve(m, f.RelatedLabel)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", m.Label(), f.Name, err)
			}
			f.Related = related
		}
	}

	return nil
}

func (r *Registry) resolve(owner *Model, label string) (*Model, error) {
	if label == "" {
		return nil, fmt.Errorf("%w: no related model declared", ErrUnknownModel)
	}

	if appLabel, name, ok := strings.Cut(label, "."); ok {
		if app, found := r.labels[appLabel]; found {
			if m, found := app.Model(name); found {
				return m, nil
			}
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownModel, label)
	}

	if app, ok := r.labels[owner.App]; ok {
		if m, found := app.Model(label); found {
			return m, nil
		}
	}

	var match *Model
	for _, app := range r.apps {
		m, found := app.Model(label)
		if !found {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w %q: ambiguous between %s and %s", ErrUnknownModel, label, match.Label(), m.Label())
		}
		match = m
	}
	if match == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownModel, label)
	}
	return match, nil
}
