// Package resolver locates the command-line-arguments property of the
// startup project's active configuration.
//
// Project systems name the property differently, so the resolver walks the
// configuration's properties and compares each against a priority-ordered
// list of known names. Nothing is cached: every call resolves the startup
// project again.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pkt.systems/pslog"

	"github.com/jakoblorz/go-debugargs/internal/host"
	"github.com/jakoblorz/go-debugargs/internal/projectsys"
)

// ErrNotSupported is returned when writing while no property can take the
// value.
var ErrNotSupported = errors.New("not supported")

// DefaultKnownProperties are the property names tried, in priority order.
var DefaultKnownProperties = []string{
	projectsys.GoArgumentsProperty,
	projectsys.NodeArgumentsProperty,
}

// Resolver reads and writes the startup project's arguments property.
type Resolver struct {
	projects host.ActiveProjectResolver
	known    []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithKnownProperties replaces the known property names. An empty list keeps
// the defaults.
func WithKnownProperties(names ...string) Option {
	return func(r *Resolver) {
		if len(names) > 0 {
			r.known = append([]string(nil), names...)
		}
	}
}

// New creates a Resolver over projects.
func New(projects host.ActiveProjectResolver, opts ...Option) *Resolver {
	r := &Resolver{
		projects: projects,
		known:    append([]string(nil), DefaultKnownProperties...),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// KnownProperties returns the known property names in priority order.
func (r *Resolver) KnownProperties() []string {
	return append([]string(nil), r.known...)
}

// properties returns the properties of the startup project's active
// configuration, or nil when there is no startup project or no active
// configuration. Non-critical failures are reported as nil.
func (r *Resolver) properties(ctx context.Context) ([]projectsys.Property, error) {
	log := pslog.Ctx(ctx)

	project, err := r.projects.StartupProject(ctx)
	if err != nil {
		return nil, suppress(log, "resolve startup project", err)
	}
	if project == nil {
		return nil, nil
	}
	log = log.With("project", project.Name())

	config, err := project.ActiveConfiguration()
	if err != nil {
		return nil, suppress(log, "resolve active configuration", err)
	}
	if config == nil {
		return nil, nil
	}

	props, err := config.Properties()
	if err != nil {
		return nil, suppress(log.With("configuration", config.Name()), "enumerate properties", err)
	}
	return props, nil
}

// suppress returns err when it is critical and logs it otherwise.
func suppress(log pslog.Logger, op string, err error) error {
	if projectsys.IsCritical(err) {
		return err
	}
	log.Debug("startup property unavailable", "op", op, "err", err)
	return nil
}

// ResolvePropertyName returns the first known name, in priority order, that
// case-insensitively matches a property of the active configuration.
func (r *Resolver) ResolvePropertyName(ctx context.Context) (string, bool, error) {
	props, err := r.properties(ctx)
	if err != nil || len(props) == 0 {
		return "", false, err
	}

	for _, name := range r.known {
		for _, prop := range props {
			if strings.EqualFold(name, prop.Name()) {
				return name, true, nil
			}
		}
	}
	return "", false, nil
}

// match returns the first property, in enumeration order, whose name is a
// known name.
func (r *Resolver) match(props []projectsys.Property) projectsys.Property {
	for _, prop := range props {
		for _, name := range r.known {
			if strings.EqualFold(name, prop.Name()) {
				return prop
			}
		}
	}
	return nil
}

// ReadValue returns the value of the arguments property. A property whose
// value cannot be read as a string is absent.
func (r *Resolver) ReadValue(ctx context.Context) (string, bool, error) {
	props, err := r.properties(ctx)
	if err != nil {
		return "", false, err
	}

	prop := r.match(props)
	if prop == nil {
		return "", false, nil
	}

	value, err := prop.Value()
	if err != nil {
		if err := suppress(pslog.Ctx(ctx).With("property", prop.Name()), "read property", err); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return value, true, nil
}

// WriteValue assigns value to the arguments property. It returns
// ErrNotSupported when there is no startup project, no active configuration
// or no known property.
func (r *Resolver) WriteValue(ctx context.Context, value string) error {
	props, err := r.properties(ctx)
	if err != nil {
		return err
	}
	if props == nil {
		return fmt.Errorf("%w: no startup project is set, or it does not support setting properties", ErrNotSupported)
	}

	prop := r.match(props)
	if prop == nil {
		return fmt.Errorf("%w: could not identify the startup arguments property for the project", ErrNotSupported)
	}

	if err := prop.SetValue(value); err != nil {
		return fmt.Errorf("failed to set %s: %w", prop.Name(), err)
	}
	pslog.Ctx(ctx).Debug("startup arguments updated", "property", prop.Name())
	return nil
}
