package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"admin/internal/app/apiclient"
	"admin/internal/app/asset"
	"admin/internal/app/console"
	"admin/internal/app/dto"
	"admin/internal/app/form"
	"admin/internal/app/modal"
	"admin/internal/app/mutator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const confirmHeader = "X-Confirm"

// ResourceHandler serves the list and the modal of one resource.
type ResourceHandler[E any] struct {
	Resource *console.Resource[E]
}

func NewResourceHandler[E any](r *console.Resource[E]) *ResourceHandler[E] {
	return &ResourceHandler[E]{Resource: r}
}

func (h *ResourceHandler[E]) listResponse() dto.ListResponse[E] {
	items := h.Resource.Items()
	return dto.ListResponse[E]{
		Items:     items,
		IsLoading: h.Resource.IsLoading(),
		Total:     len(items),
	}
}

func (h *ResourceHandler[E]) modalResponse() dto.ModalResponse[E] {
	snap := h.Resource.Modal()
	resp := dto.ModalResponse[E]{
		State:    snap.State,
		Mode:     string(snap.Mode),
		TargetID: snap.TargetID,
		Values:   snap.Values,
		Preview:  snap.Preview,
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	return resp
}

// ============ List ============

// GetList returns the current list of a resource
// @Summary Resource list
// @Description Items as last loaded from the content API. The first call loads the list.
// @Tags Resources
// @Produce json
// @Param resource path string true "services, blog, projects, corporate-plans or clients"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/{resource} [get]
func (h *ResourceHandler[E]) GetList(c *gin.Context) {
	// first view mounts the page
	if h.Resource.IsLoading() {
		_ = h.Resource.Mount(c.Request.Context())
	}
	successResponse(c, http.StatusOK, "", h.listResponse())
}

// Reload re-fetches the list from the content API
// @Summary Reload resource list
// @Tags Resources
// @Produce json
// @Param resource path string true "resource"
// @Success 200 {object} dto.SuccessResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/{resource}/reload [post]
func (h *ResourceHandler[E]) Reload(c *gin.Context) {
	if err := h.Resource.Reload(c.Request.Context()); err != nil {
		errorHandler(c, http.StatusBadGateway, err)
		return
	}
	successResponse(c, http.StatusOK, "", h.listResponse())
}

// Delete removes an entity; the X-Confirm header must be "yes"
// @Summary Delete entity
// @Tags Resources
// @Produce json
// @Param resource path string true "resource"
// @Param id path string true "entity id"
// @Param X-Confirm header string true "yes to confirm"
// @Success 200 {object} dto.SuccessResponse
// @Failure 428 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/{resource}/{id} [delete]
func (h *ResourceHandler[E]) Delete(c *gin.Context) {
	confirmed := mutator.ConfirmFunc(func(context.Context, string) bool {
		return c.GetHeader(confirmHeader) == "yes"
	})

	deleted, err := h.Resource.Delete(c.Request.Context(), c.Param("id"), confirmed)
	if err != nil {
		errorHandler(c, http.StatusBadGateway, err)
		return
	}
	if !deleted {
		errorResponse(c, http.StatusPreconditionRequired, h.Resource.ConfirmPrompt())
		return
	}
	successResponse(c, http.StatusOK, "deleted", h.listResponse())
}

// ============ Modal ============

// GetModal returns the modal state and the form values
// @Summary Modal state
// @Tags Modal
// @Produce json
// @Param resource path string true "resource"
// @Success 200 {object} dto.SuccessResponse
// @Router /api/{resource}/modal [get]
func (h *ResourceHandler[E]) GetModal(c *gin.Context) {
	successResponse(c, http.StatusOK, "", h.modalResponse())
}

// OpenCreate opens the modal with a fresh form
// @Summary Open create modal
// @Tags Modal
// @Produce json
// @Param resource path string true "resource"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/{resource}/modal [post]
func (h *ResourceHandler[E]) OpenCreate(c *gin.Context) {
	if err := h.Resource.OpenCreate(c.Request.Context()); err != nil {
		errorHandler(c, http.StatusConflict, err)
		return
	}
	successResponse(c, http.StatusOK, "", h.modalResponse())
}

// OpenEdit opens the modal on an existing entity
// @Summary Open edit modal
// @Tags Modal
// @Produce json
// @Param resource path string true "resource"
// @Param id path string true "entity id"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/{resource}/modal/{id} [post]
func (h *ResourceHandler[E]) OpenEdit(c *gin.Context) {
	err := h.Resource.OpenEditByID(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, console.ErrNotFound):
		errorHandler(c, http.StatusNotFound, err)
		return
	case err != nil:
		errorHandler(c, http.StatusConflict, err)
		return
	}
	successResponse(c, http.StatusOK, "", h.modalResponse())
}

// Cancel closes the modal discarding the form
// @Summary Cancel modal
// @Tags Modal
// @Produce json
// @Param resource path string true "resource"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/{resource}/modal [delete]
func (h *ResourceHandler[E]) Cancel(c *gin.Context) {
	if err := h.Resource.Cancel(c.Request.Context()); err != nil {
		errorHandler(c, http.StatusConflict, err)
		return
	}
	successResponse(c, http.StatusOK, "", h.modalResponse())
}

// ReplaceForm overwrites the form values with the body. Drafts are not
// validated; submit is.
// @Summary Replace form values
// @Tags Modal
// @Accept json
// @Produce json
// @Param resource path string true "resource"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/{resource}/modal/form [put]
func (h *ResourceHandler[E]) ReplaceForm(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		errorHandler(c, http.StatusBadRequest, err)
		return
	}
	var values E
	if err := json.Unmarshal(raw, &values); err != nil {
		errorHandler(c, http.StatusBadRequest, err)
		return
	}

	err = h.Resource.WithForm(func(f *form.Form[E]) error {
		f.Replace(values)
		return nil
	})
	if err != nil {
		formError(c, err)
		return
	}
	successResponse(c, http.StatusOK, "", h.modalResponse())
}

// UpdateListEntry sets one entry of a list field
// @Summary Update list entry
// @Tags Modal
// @Accept json
// @Produce json
// @Param resource path string true "resource"
// @Param field path string true "list field"
// @Param index path int true "entry index"
// @Param request body dto.ListEntryRequest true "new value"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/{resource}/modal/lists/{field}/{index} [put]
func (h *ResourceHandler[E]) UpdateListEntry(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		errorHandler(c, http.StatusBadRequest, fmt.Errorf("index: %w", err))
		return
	}
	var request dto.ListEntryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		errorHandler(c, http.StatusBadRequest, err)
		return
	}

	err = h.Resource.WithForm(func(f *form.Form[E]) error {
		return f.UpdateListEntry(c.Param("field"), index, request.Value)
	})
	if err != nil {
		formError(c, err)
		return
	}
	successResponse(c, http.StatusOK, "", h.modalResponse())
}

// AddListEntry appends an empty entry to a list field
// @Summary Add list entry
// @Tags Modal
// @Produce json
// @Param resource path string true "resource"
// @Param field path string true "list field"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/{resource}/modal/lists/{field} [post]
func (h *ResourceHandler[E]) AddListEntry(c *gin.Context) {
	err := h.Resource.WithForm(func(f *form.Form[E]) error {
		return f.AddListEntry(c.Param("field"))
	})
	if err != nil {
		formError(c, err)
		return
	}
	successResponse(c, http.StatusOK, "", h.modalResponse())
}

// RemoveListEntry drops one entry of a list field
// @Summary Remove list entry
// @Tags Modal
// @Produce json
// @Param resource path string true "resource"
// @Param field path string true "list field"
// @Param index path int true "entry index"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/{resource}/modal/lists/{field}/{index} [delete]
func (h *ResourceHandler[E]) RemoveListEntry(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		errorHandler(c, http.StatusBadRequest, fmt.Errorf("index: %w", err))
		return
	}

	err = h.Resource.WithForm(func(f *form.Form[E]) error {
		return f.RemoveListEntry(c.Param("field"), index)
	})
	if err != nil {
		formError(c, err)
		return
	}
	successResponse(c, http.StatusOK, "", h.modalResponse())
}

// SelectAsset stages an image for upload and previews it
// @Summary Select asset
// @Tags Modal
// @Accept multipart/form-data
// @Produce json
// @Param resource path string true "resource"
// @Param file formData file true "image"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/{resource}/modal/asset [post]
func (h *ResourceHandler[E]) SelectAsset(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		errorHandler(c, http.StatusBadRequest, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		errorHandler(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	err = h.Resource.WithForm(func(f *form.Form[E]) error {
		return f.SelectAsset(c.Request.Context(), header.Filename, file)
	})
	if err != nil {
		formError(c, err)
		return
	}
	successResponse(c, http.StatusOK, "", h.modalResponse())
}

// Submit validates the form and saves it through the content API
// @Summary Submit modal
// @Tags Modal
// @Produce json
// @Param resource path string true "resource"
// @Success 200 {object} dto.SuccessResponse
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/{resource}/modal/submit [post]
func (h *ResourceHandler[E]) Submit(c *gin.Context) {
	var mode modal.Mode
	saved, err := h.Resource.SubmitChecked(c.Request.Context(), func(f *form.Form[E], m modal.Mode) error {
		mode = m
		return validate(f, m)
	})
	if err != nil {
		var mutErr *mutator.MutationError
		if errors.As(err, &mutErr) {
			errorResponse(c, mutationStatus(mutErr), mutErr.Message)
			return
		}
		formError(c, err)
		return
	}

	status := http.StatusOK
	if mode == modal.ModeCreate {
		status = http.StatusCreated
	}
	successResponse(c, status, "saved", saved)
}

// validationError is a submit refused before reaching the content API.
type validationError struct {
	err error
}

func (e *validationError) Error() string { return e.err.Error() }
func (e *validationError) Unwrap() error { return e.err }

// validate applies the required-field rules of the entity binding tags and
// the asset rule of the resource on the normalized payload.
func validate[E any](f *form.Form[E], mode modal.Mode) error {
	payload := f.Normalize()
	if err := binding.Validator.ValidateStruct(payload.Values); err != nil {
		return &validationError{err: err}
	}
	d := f.Descriptor()
	if d.Asset != nil && d.Asset.RequiredOnCreate && mode == modal.ModeCreate && payload.Asset == nil {
		return &validationError{err: fmt.Errorf("%s is required", d.Asset.Name)}
	}
	return nil
}

func mutationStatus(err *mutator.MutationError) int {
	var serverErr *apiclient.ServerError
	if errors.As(err, &serverErr) && serverErr.StatusCode >= 400 && serverErr.StatusCode < 500 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

// formError maps core errors of the modal and the form to HTTP statuses.
func formError(c *gin.Context, err error) {
	var vErr *validationError
	switch {
	case errors.As(err, &vErr):
		errorHandler(c, http.StatusBadRequest, err)
	case errors.Is(err, console.ErrModalClosed):
		errorHandler(c, http.StatusConflict, err)
	case errors.Is(err, form.ErrUnknownField), errors.Is(err, form.ErrNoAsset):
		errorHandler(c, http.StatusNotFound, err)
	case errors.Is(err, form.ErrIndexOutOfRange),
		errors.Is(err, asset.ErrEmpty),
		errors.Is(err, asset.ErrNotImage),
		errors.Is(err, asset.ErrTooLarge):
		errorHandler(c, http.StatusBadRequest, err)
	default:
		errorHandler(c, http.StatusConflict, err)
	}
}
