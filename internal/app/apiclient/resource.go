package apiclient

import (
	"context"
	"net/http"

	"admin/internal/app/asset"
	"admin/internal/app/dto"

	"github.com/go-resty/resty/v2"
)

// Resource is the operation group of one resource type on the content API.
type Resource[E any] struct {
	client *Client
	path   string

	// multipart resources only
	fileField string
	fields    func(E) map[string]string
}

// NewResource returns a group whose payloads are sent as JSON.
func NewResource[E any](c *Client, resource string) *Resource[E] {
	return &Resource[E]{client: c, path: "/" + resource}
}

// NewMultipartResource returns a group whose payloads are sent as
// multipart/form-data: fields renders the text parts, the optional asset
// goes in fileField.
func NewMultipartResource[E any](c *Client, resource, fileField string, fields func(E) map[string]string) *Resource[E] {
	return &Resource[E]{
		client:    c,
		path:      "/" + resource,
		fileField: fileField,
		fields:    fields,
	}
}

func (r *Resource[E]) GetAll(ctx context.Context) ([]E, error) {
	page, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Count returns the number of entities, preferring the totals the API
// reports over the length of the returned page.
func (r *Resource[E]) Count(ctx context.Context) (int, error) {
	page, err := r.list(ctx)
	if err != nil {
		return 0, err
	}
	switch {
	case page.Total > 0:
		return page.Total, nil
	case page.Count > 0:
		return page.Count, nil
	default:
		return len(page.Data), nil
	}
}

func (r *Resource[E]) list(ctx context.Context) (*dto.APIResponse[[]E], error) {
	var out dto.APIResponse[[]E]
	if err := r.client.do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one entity by id.
func (r *Resource[E]) Get(ctx context.Context, id string) (E, error) {
	var out dto.APIResponse[E]
	err := r.client.do(ctx, http.MethodGet, r.path+"/{id}", func(req *resty.Request) {
		req.SetPathParam("id", id)
	}, &out)
	return out.Data, err
}

func (r *Resource[E]) Create(ctx context.Context, v E, file *asset.File) (E, error) {
	return r.write(ctx, http.MethodPost, r.path, v, file, nil)
}

func (r *Resource[E]) Update(ctx context.Context, id string, v E, file *asset.File) (E, error) {
	return r.write(ctx, http.MethodPut, r.path+"/{id}", v, file, map[string]string{"id": id})
}

func (r *Resource[E]) Delete(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodDelete, r.path+"/{id}", func(req *resty.Request) {
		req.SetPathParam("id", id)
	}, nil)
}

func (r *Resource[E]) write(ctx context.Context, method, path string, v E, file *asset.File, params map[string]string) (E, error) {
	var out dto.APIResponse[E]
	err := r.client.do(ctx, method, path, func(req *resty.Request) {
		req.SetPathParams(params)
		if r.fields == nil {
			req.SetHeader("Content-Type", "application/json").SetBody(v)
			return
		}
		req.SetMultipartFormData(r.fields(v))
		if file != nil {
			req.SetMultipartField(r.fileField, file.Name, file.ContentType, file.Reader())
		}
	}, &out)
	if err != nil {
		var zero E
		return zero, err
	}
	return out.Data, nil
}
