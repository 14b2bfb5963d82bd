package mutator

import (
	"context"
	"errors"
	"testing"

	"admin/internal/app/apiclient"
	"admin/internal/app/asset"
	"admin/internal/app/ds"
	"admin/internal/app/form"
	"admin/internal/app/modal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op   string
	id   string
	v    ds.Project
	file *asset.File
}

type fakeAPI struct {
	calls []call
	err   error
}

func (f *fakeAPI) Create(_ context.Context, v ds.Project, file *asset.File) (ds.Project, error) {
	f.calls = append(f.calls, call{op: "create", v: v, file: file})
	if f.err != nil {
		return ds.Project{}, f.err
	}
	v.ID = "new-id"
	return v, nil
}

func (f *fakeAPI) Update(_ context.Context, id string, v ds.Project, file *asset.File) (ds.Project, error) {
	f.calls = append(f.calls, call{op: "update", id: id, v: v, file: file})
	if f.err != nil {
		return ds.Project{}, f.err
	}
	v.ID = id
	return v, nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, call{op: "delete", id: id})
	return f.err
}

func answer(yes bool, asked *string) Confirmer {
	return ConfirmFunc(func(_ context.Context, prompt string) bool {
		*asked = prompt
		return yes
	})
}

func TestMutator_SubmitCreateAndUpdate(t *testing.T) {
	api := &fakeAPI{}
	m := New(form.Projects, api, nil)
	ctx := context.Background()

	payload := form.Payload[ds.Project]{Values: ds.Project{Title: "Portal", Technologies: []string{"Go"}}}

	created, err := m.Submit(ctx, modal.ModeCreate, "", payload)
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)

	updated, err := m.Submit(ctx, modal.ModeEdit, "p-1", payload)
	require.NoError(t, err)
	assert.Equal(t, "p-1", updated.ID)

	require.Len(t, api.calls, 2)
	assert.Equal(t, "create", api.calls[0].op)
	assert.Equal(t, "update", api.calls[1].op)
	assert.Equal(t, "p-1", api.calls[1].id)
	assert.Equal(t, []string{"Go"}, api.calls[1].v.Technologies)
}

func TestMutator_SubmitErrorMessages(t *testing.T) {
	ctx := context.Background()
	payload := form.Payload[ds.Project]{}

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "server message surfaces",
			err:     &apiclient.ServerError{StatusCode: 400, Message: "Title already used"},
			message: "Title already used",
		},
		{
			name:    "server error without message",
			err:     &apiclient.ServerError{StatusCode: 500},
			message: "error saving the project",
		},
		{
			name:    "transport error",
			err:     errors.New("connection refused"),
			message: "error saving the project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(form.Projects, &fakeAPI{err: tt.err}, nil)

			_, err := m.Submit(ctx, modal.ModeCreate, "", payload)

			var mutErr *MutationError
			require.ErrorAs(t, err, &mutErr)
			assert.Equal(t, tt.message, mutErr.Error())
			assert.Equal(t, "projects", mutErr.Resource)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestMutator_SubmitEditWithoutID(t *testing.T) {
	api := &fakeAPI{}
	m := New(form.Projects, api, nil)

	_, err := m.Submit(context.Background(), modal.ModeEdit, "", form.Payload[ds.Project]{})

	var mutErr *MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Empty(t, api.calls)
}

func TestMutator_DeleteDeclinedNeverCallsAPI(t *testing.T) {
	api := &fakeAPI{}
	reloads := 0
	m := New(form.Projects, api, func(context.Context) { reloads++ })

	var asked string
	deleted, err := m.Delete(context.Background(), "p-1", answer(false, &asked))
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "Are you sure you want to delete this project?", asked)
	assert.Empty(t, api.calls)
	assert.Zero(t, reloads)

	deleted, err = m.Delete(context.Background(), "p-1", nil)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, api.calls)
}

func TestMutator_DeleteConfirmedReloads(t *testing.T) {
	api := &fakeAPI{}
	reloads := 0
	m := New(form.Projects, api, func(context.Context) { reloads++ })

	var asked string
	deleted, err := m.Delete(context.Background(), "p-1", answer(true, &asked))
	require.NoError(t, err)
	assert.True(t, deleted)
	require.Len(t, api.calls, 1)
	assert.Equal(t, "p-1", api.calls[0].id)
	assert.Equal(t, 1, reloads)
}

func TestMutator_DeleteFailureIsGeneric(t *testing.T) {
	api := &fakeAPI{err: &apiclient.ServerError{StatusCode: 409, Message: "Project is referenced"}}
	reloads := 0
	m := New(form.Projects, api, func(context.Context) { reloads++ })

	deleted, err := m.Delete(context.Background(), "p-1", Always)
	assert.False(t, deleted)

	var delErr *DeletionError
	require.ErrorAs(t, err, &delErr)
	assert.Equal(t, "error deleting the project", delErr.Error())
	assert.Equal(t, "p-1", delErr.ID)
	assert.Zero(t, reloads)
}
