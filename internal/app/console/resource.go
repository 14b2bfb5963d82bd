// Package console ties together the list, modal and mutations of every
// resource the admin manages.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"admin/internal/app/form"
	"admin/internal/app/modal"
	"admin/internal/app/mutator"
	"admin/internal/app/store"
)

var (
	ErrModalClosed = errors.New("modal is not open")
	ErrNotFound    = errors.New("entity not found")
)

// API is everything one resource needs from the content API.
type API[E any] interface {
	store.Lister[E]
	mutator.API[E]
	Get(ctx context.Context, id string) (E, error)
	Count(ctx context.Context) (int, error)
}

// ModalSnapshot is a consistent read of the modal and its form.
type ModalSnapshot[E any] struct {
	State    string
	Mode     modal.Mode
	TargetID string
	Values   *E // nil while closed
	Preview  string
	Err      error
}

// Resource is the page of one resource type. Modal and form access is
// serialized; the list has its own lock.
type Resource[E any] struct {
	desc    *form.Descriptor[E]
	api     API[E]
	store   *store.Store[E]
	modal   *modal.Controller[E]
	mutator *mutator.Mutator[E]

	mu sync.Mutex
}

func NewResource[E any](d *form.Descriptor[E], api API[E], assets form.Assets) *Resource[E] {
	r := &Resource[E]{
		desc:  d,
		api:   api,
		store: store.New[E](d.Resource, api),
	}
	reload := func(ctx context.Context) {
		// failures are logged by the store and leave the list as it was
		_ = r.store.Reload(ctx)
	}
	r.modal = modal.New(d, assets, reload)
	r.mutator = mutator.New(d, api, reload)
	return r
}

func (r *Resource[E]) Descriptor() *form.Descriptor[E] {
	return r.desc
}

// Mount performs the initial load of the list.
func (r *Resource[E]) Mount(ctx context.Context) error {
	return r.store.Reload(ctx)
}

func (r *Resource[E]) Reload(ctx context.Context) error {
	return r.store.Reload(ctx)
}

func (r *Resource[E]) Items() []E {
	return r.store.Items()
}

func (r *Resource[E]) IsLoading() bool {
	return r.store.IsLoading()
}

// Count asks the API for the number of entities without touching the list.
func (r *Resource[E]) Count(ctx context.Context) (int, error) {
	return r.api.Count(ctx)
}

func (r *Resource[E]) OpenCreate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modal.OpenCreate(ctx)
}

// OpenEdit opens the modal on entity as displayed in the list.
func (r *Resource[E]) OpenEdit(ctx context.Context, entity E) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modal.OpenEdit(ctx, entity)
}

// OpenEditByID opens the modal on the listed entity id, falling back to the
// API when the list does not hold it (yet).
func (r *Resource[E]) OpenEditByID(ctx context.Context, id string) error {
	entity, ok := r.find(id)
	if !ok {
		fetched, err := r.api.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("%s %s: %w: %v", r.desc.Resource, id, ErrNotFound, err)
		}
		entity = fetched
	}
	return r.OpenEdit(ctx, entity)
}

func (r *Resource[E]) find(id string) (E, bool) {
	for _, e := range r.store.Items() {
		if r.desc.ID(e) == id {
			return e, true
		}
	}
	var zero E
	return zero, false
}

func (r *Resource[E]) Cancel(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modal.Cancel(ctx)
}

// Form returns the live form, nil while closed. Callers sharing the resource
// across goroutines should go through WithForm.
func (r *Resource[E]) Form() *form.Form[E] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modal.Form()
}

// WithForm runs fn on the open form while holding the modal lock.
func (r *Resource[E]) WithForm(fn func(f *form.Form[E]) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.modal.Form()
	if f == nil {
		return ErrModalClosed
	}
	return fn(f)
}

func (r *Resource[E]) Modal() ModalSnapshot[E] {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := ModalSnapshot[E]{
		State:    r.modal.State(),
		Mode:     r.modal.Mode(),
		TargetID: r.modal.TargetID(),
		Err:      r.modal.Err(),
	}
	if f := r.modal.Form(); f != nil {
		view := f.View()
		snap.Values = &view
		snap.Preview = f.Preview()
	}
	return snap
}

// Submit normalizes the open form and sends it. On success the modal closes
// and the list reloads; on failure the modal stays open with the form intact
// and the *mutator.MutationError is returned.
func (r *Resource[E]) Submit(ctx context.Context) (E, error) {
	return r.SubmitChecked(ctx, nil)
}

// SubmitChecked is Submit preceded by check, run under the same lock. A check
// error is returned as is and leaves the modal untouched.
func (r *Resource[E]) SubmitChecked(ctx context.Context, check func(f *form.Form[E], mode modal.Mode) error) (E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero E
	f := r.modal.Form()
	if f == nil {
		return zero, ErrModalClosed
	}
	if check != nil {
		if err := check(f, r.modal.Mode()); err != nil {
			return zero, err
		}
	}

	saved, err := r.mutator.Submit(ctx, r.modal.Mode(), r.modal.TargetID(), f.Normalize())
	if err != nil {
		if mErr := r.modal.SubmitFailed(ctx, err); mErr != nil {
			return zero, mErr
		}
		return zero, err
	}

	if err := r.modal.SubmitSucceeded(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// Delete removes entity id after confirmation, see mutator.Mutator.Delete.
func (r *Resource[E]) Delete(ctx context.Context, id string, c mutator.Confirmer) (bool, error) {
	return r.mutator.Delete(ctx, id, c)
}

func (r *Resource[E]) ConfirmPrompt() string {
	return r.mutator.ConfirmPrompt()
}
