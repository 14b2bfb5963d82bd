// Package modal drives the create/edit dialog of one resource.
package modal

import (
	"context"
	"fmt"

	"admin/internal/app/form"

	"github.com/qmuntal/stateless"
)

type Mode string

const (
	ModeNone   Mode = ""
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

const (
	StateClosed = "Closed"
	StateOpen   = "Open"
)

const (
	triggerOpenCreate      = "openCreate"
	triggerOpenEdit        = "openEdit"
	triggerCancel          = "cancel"
	triggerSubmitSucceeded = "submitSucceeded"
	triggerSubmitFailed    = "submitFailed"
)

// Controller owns the Closed / Open(Create) / Open(Edit, target) machine and
// the form instance living while it is open. It is not safe for concurrent
// use.
type Controller[E any] struct {
	desc    *form.Descriptor[E]
	assets  form.Assets
	machine *stateless.StateMachine

	form   *form.Form[E]
	mode   Mode
	target *E
	err    error

	onSucceeded func(ctx context.Context)
}

// New returns a closed controller. onSucceeded runs after a successful
// submit closed the modal, typically reloading the resource list.
func New[E any](d *form.Descriptor[E], assets form.Assets, onSucceeded func(ctx context.Context)) *Controller[E] {
	c := &Controller[E]{
		desc:        d,
		assets:      assets,
		onSucceeded: onSucceeded,
	}

	m := stateless.NewStateMachine(StateClosed)

	m.Configure(StateClosed).
		Permit(triggerOpenCreate, StateOpen).
		Permit(triggerOpenEdit, StateOpen).
		OnEntryFrom(triggerSubmitSucceeded, func(ctx context.Context, _ ...any) error {
			if c.onSucceeded != nil {
				c.onSucceeded(ctx)
			}
			return nil
		})

	m.Configure(StateOpen).
		OnEntryFrom(triggerOpenCreate, func(_ context.Context, _ ...any) error {
			c.mode = ModeCreate
			c.target = nil
			c.form = form.New(c.desc, c.assets)
			return nil
		}).
		OnEntryFrom(triggerOpenEdit, func(_ context.Context, args ...any) error {
			entity, ok := args[0].(E)
			if !ok {
				return fmt.Errorf("openEdit expects %T, got %T", entity, args[0])
			}
			c.mode = ModeEdit
			c.target = &entity
			c.form = form.Hydrate(c.desc, c.assets, entity)
			return nil
		}).
		OnExit(func(_ context.Context, _ ...any) error {
			c.form = nil
			c.mode = ModeNone
			c.target = nil
			c.err = nil
			return nil
		}).
		InternalTransition(triggerSubmitFailed, func(_ context.Context, args ...any) error {
			err, _ := args[0].(error)
			c.err = err
			return nil
		}).
		Permit(triggerCancel, StateClosed).
		Permit(triggerSubmitSucceeded, StateClosed)

	c.machine = m
	return c
}

func (c *Controller[E]) fire(ctx context.Context, trigger string, args ...any) error {
	if err := c.machine.FireCtx(ctx, trigger, args...); err != nil {
		return fmt.Errorf("%s modal: %w", c.desc.Resource, err)
	}
	return nil
}

// OpenCreate opens the modal with a form reset to defaults.
func (c *Controller[E]) OpenCreate(ctx context.Context) error {
	return c.fire(ctx, triggerOpenCreate)
}

// OpenEdit opens the modal with a form hydrated from entity.
func (c *Controller[E]) OpenEdit(ctx context.Context, entity E) error {
	return c.fire(ctx, triggerOpenEdit, entity)
}

// Cancel closes the modal and discards the form without side effects.
func (c *Controller[E]) Cancel(ctx context.Context) error {
	return c.fire(ctx, triggerCancel)
}

// SubmitSucceeded closes the modal and signals the success hook.
func (c *Controller[E]) SubmitSucceeded(ctx context.Context) error {
	return c.fire(ctx, triggerSubmitSucceeded)
}

// SubmitFailed keeps the modal open with its form and records err.
func (c *Controller[E]) SubmitFailed(ctx context.Context, err error) error {
	return c.fire(ctx, triggerSubmitFailed, err)
}

func (c *Controller[E]) State() string {
	return c.machine.MustState().(string)
}

func (c *Controller[E]) IsOpen() bool {
	return c.State() == StateOpen
}

func (c *Controller[E]) Mode() Mode {
	return c.mode
}

// Target returns the entity being edited.
func (c *Controller[E]) Target() (E, bool) {
	if c.target == nil {
		var zero E
		return zero, false
	}
	return *c.target, true
}

// TargetID returns the server identity of the edited entity, empty in create mode.
func (c *Controller[E]) TargetID() string {
	if c.target == nil {
		return ""
	}
	return c.desc.ID(*c.target)
}

// Form returns the live form, nil while closed.
func (c *Controller[E]) Form() *form.Form[E] {
	return c.form
}

// Err returns the error of the last failed submit of this opening.
func (c *Controller[E]) Err() error {
	return c.err
}
