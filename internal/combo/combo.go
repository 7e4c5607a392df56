// Package combo coordinates the command-line combo control: it binds the
// control's events to the startup property resolver and the recent command
// line history.
package combo

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"

	"github.com/jakoblorz/go-debugargs/internal/history"
	"github.com/jakoblorz/go-debugargs/internal/projectsys"
	"github.com/jakoblorz/go-debugargs/internal/settings"
)

var (
	// ErrUnexpectedInput is returned when the list request carries an input value.
	ErrUnexpectedInput = errors.New("unexpected input value")

	// ErrDisabled is returned by Invoke when the recent command lines could
	// not be loaded at activation.
	ErrDisabled = errors.New("command line control disabled")
)

// Status is the displayed state of the control.
type Status struct {
	Supported bool
	Enabled   bool
	// Property is the resolved property name while enabled.
	Property string
}

// String returns "enabled" or "disabled".
func (s Status) String() string {
	if s.Enabled {
		return "enabled"
	}
	return "disabled"
}

// PropertyResolver finds, reads and writes the startup arguments property.
type PropertyResolver interface {
	ResolvePropertyName(ctx context.Context) (string, bool, error)
	ReadValue(ctx context.Context) (string, bool, error)
	WriteValue(ctx context.Context, value string) error
}

// Coordinator handles the control's events. It is not safe for concurrent
// use; events are expected one at a time.
type Coordinator struct {
	resolver PropertyResolver
	history  *history.Store

	// loadErr is set when activation failed; the control stays disabled.
	loadErr error
}

// New creates a Coordinator over an already loaded history.
func New(resolver PropertyResolver, h *history.Store) *Coordinator {
	return &Coordinator{
		resolver: resolver,
		history:  h,
	}
}

// Activate creates the history backed by store, loads it and returns the
// coordinator.
//
// When the history cannot be loaded the load error is returned together with
// a disabled coordinator: QueryStatus reports disabled, FetchList returns an
// empty list and Invoke fails with ErrDisabled. Hosts keep running with it.
func Activate(ctx context.Context, store settings.Store, resolver PropertyResolver, opts ...history.Option) (*Coordinator, error) {
	h := history.New(store, opts...)
	list, err := h.Load()
	if err != nil {
		h.Reset()
		c := New(resolver, h)
		c.loadErr = fmt.Errorf("failed to load recent command lines: %w", err)
		return c, c.loadErr
	}
	pslog.Ctx(ctx).Debug("combo activated", "recent", len(list), "collection", h.Collection())

	return New(resolver, h), nil
}

// Err returns the activation error of a disabled coordinator.
func (c *Coordinator) Err() error {
	return c.loadErr
}

// Deactivate discards the in-memory list. Storage is left untouched.
func (c *Coordinator) Deactivate() {
	c.history.Reset()
}

// History returns the coordinator's recent command line store.
func (c *Coordinator) History() *history.Store {
	return c.history
}

// Invoke handles the combo's invoke event. When in is non-nil its value is
// written to the startup project and promoted; the current value is then read
// back, promoted and returned.
//
// A write failure is returned before anything is promoted. When the current
// value cannot be read, nothing more is promoted and "" is returned.
func (c *Coordinator) Invoke(ctx context.Context, in *string) (string, error) {
	if c.loadErr != nil {
		return "", fmt.Errorf("%w: %w", ErrDisabled, c.loadErr)
	}

	if in != nil {
		if err := c.resolver.WriteValue(ctx, *in); err != nil {
			return "", err
		}
		if _, err := c.history.Promote(*in); err != nil {
			return "", err
		}
	}

	value, ok, err := c.resolver.ReadValue(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	if _, err := c.history.Promote(value); err != nil {
		return value, err
	}
	return value, nil
}

// FetchList returns the recent command lines, most recent first.
func (c *Coordinator) FetchList(in *string) ([]string, error) {
	if in != nil {
		return nil, ErrUnexpectedInput
	}
	return c.history.CurrentList(), nil
}

// QueryStatus resolves the arguments property again and reports whether the
// control is enabled. Only critical errors are returned.
func (c *Coordinator) QueryStatus(ctx context.Context) (Status, error) {
	status := Status{Supported: true}
	if c.loadErr != nil {
		return status, nil
	}

	name, ok, err := c.resolver.ResolvePropertyName(ctx)
	if err != nil {
		if projectsys.IsCritical(err) {
			return status, err
		}
		pslog.Ctx(ctx).Debug("combo disabled", "err", err)
		return status, nil
	}

	status.Enabled = ok
	status.Property = name
	return status, nil
}

// Change handles edits of the combo text. Values are only applied on invoke.
func (c *Coordinator) Change(ctx context.Context, value string) {}
