// Package mutator sends create, update and delete operations to the content
// API and translates their failures for the console.
package mutator

import (
	"context"
	"errors"
	"fmt"

	"admin/internal/app/apiclient"
	"admin/internal/app/asset"
	"admin/internal/app/form"
	"admin/internal/app/modal"

	"github.com/sirupsen/logrus"
)

// API is the write side of one resource on the content API.
type API[E any] interface {
	Create(ctx context.Context, v E, file *asset.File) (E, error)
	Update(ctx context.Context, id string, v E, file *asset.File) (E, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the admin to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Always approves; for callers that confirmed out of band.
var Always = ConfirmFunc(func(context.Context, string) bool { return true })

// MutationError is a failed create or update. Message is what the admin sees.
type MutationError struct {
	Resource string
	Mode     modal.Mode
	Message  string
	Err      error
}

func (e *MutationError) Error() string { return e.Message }
func (e *MutationError) Unwrap() error { return e.Err }

// DeletionError is a failed delete. Message is always generic.
type DeletionError struct {
	Resource string
	ID       string
	Message  string
	Err      error
}

func (e *DeletionError) Error() string { return e.Message }
func (e *DeletionError) Unwrap() error { return e.Err }

var errMissingID = errors.New("edit submit without target id")

type Mutator[E any] struct {
	desc     *form.Descriptor[E]
	api      API[E]
	onDelete func(ctx context.Context)
	log      *logrus.Entry
}

// New returns a mutator. onDelete runs after a successful delete, typically
// reloading the resource list.
func New[E any](d *form.Descriptor[E], api API[E], onDelete func(ctx context.Context)) *Mutator[E] {
	return &Mutator[E]{
		desc:     d,
		api:      api,
		onDelete: onDelete,
		log:      logrus.WithField("resource", d.Resource),
	}
}

// Submit creates the payload, or updates the entity id with it in edit mode.
func (m *Mutator[E]) Submit(ctx context.Context, mode modal.Mode, id string, p form.Payload[E]) (E, error) {
	var (
		saved E
		err   error
	)

	switch mode {
	case modal.ModeCreate:
		saved, err = m.api.Create(ctx, p.Values, p.Asset)
	case modal.ModeEdit:
		if id == "" {
			err = errMissingID
			break
		}
		saved, err = m.api.Update(ctx, id, p.Values, p.Asset)
	default:
		err = fmt.Errorf("submit in mode %q", mode)
	}

	if err != nil {
		m.log.WithError(err).WithField("mode", mode).Error("error saving")
		return saved, &MutationError{
			Resource: m.desc.Resource,
			Mode:     mode,
			Message:  m.saveMessage(err),
			Err:      err,
		}
	}
	m.log.WithFields(logrus.Fields{"mode": mode, "id": m.desc.ID(saved)}).Info("saved")
	return saved, nil
}

// Delete removes entity id once the confirmer approves. It reports whether
// the entity was deleted; a declined confirmation never reaches the API.
func (m *Mutator[E]) Delete(ctx context.Context, id string, c Confirmer) (bool, error) {
	if c == nil || !c.Confirm(ctx, m.ConfirmPrompt()) {
		return false, nil
	}

	if err := m.api.Delete(ctx, id); err != nil {
		m.log.WithError(err).WithField("id", id).Error("error deleting")
		return false, &DeletionError{
			Resource: m.desc.Resource,
			ID:       id,
			Message:  fmt.Sprintf("error deleting the %s", m.desc.Noun),
			Err:      err,
		}
	}

	m.log.WithField("id", id).Info("deleted")
	if m.onDelete != nil {
		m.onDelete(ctx)
	}
	return true, nil
}

// ConfirmPrompt is the question shown before a delete.
func (m *Mutator[E]) ConfirmPrompt() string {
	return fmt.Sprintf("Are you sure you want to delete this %s?", m.desc.Noun)
}

func (m *Mutator[E]) saveMessage(err error) string {
	var serverErr *apiclient.ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return fmt.Sprintf("error saving the %s", m.desc.Noun)
}
