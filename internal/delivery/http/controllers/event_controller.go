package controllers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	h "eventconnect/internal/delivery/http/helpers"
	"eventconnect/internal/domain"
)

const (
	eventPart = "event"
	imagePart = "image"

	// multipartOverhead covers the JSON part and multipart framing on top of the image.
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

type EventController struct {
	Logger        *slog.Logger
	Service       domain.EventService
	Images        domain.ImageStorage
	MaxUploadSize int64
	now           func() time.Time
}

func NewEventController(logger *slog.Logger, svc domain.EventService, images domain.ImageStorage, maxUploadSize int64) *EventController {
	return &EventController{
		Logger:        logger,
		Service:       svc,
		Images:        images,
		MaxUploadSize: maxUploadSize,
		now:           time.Now,
	}
}

// eventForm is a decoded multipart event submission.
type eventForm struct {
	request EventRequest
	image   *multipart.FileHeader
}

// readEventForm parses the multipart body. It writes the error response and returns false on failure.
func (c *EventController) readEventForm(w http.ResponseWriter, r *http.Request, create bool) (*eventForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteServiceError(w, r, c.Logger, fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrFileTooLarge, tooLarge.Limit))
			return nil, false
		}
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "expected multipart/form-data body")
		return nil, false
	}

	body, err := eventPartReader(r.MultipartForm)
	if err != nil {
		h.WriteValidationError(w, h.FieldErrors{eventPart: err.Error()})
		return nil, false
	}
	defer body.Close()

	form := &eventForm{}
	if !h.DecodeReaderAndValidate(w, body, &form.request) {
		return nil, false
	}
	errs := form.request.validate(startOfDay(c.now()), create)
	// A zero-byte image part counts as no image.
	if files := r.MultipartForm.File[imagePart]; len(files) > 0 && files[0].Size > 0 {
		form.image = files[0]
	} else if create {
		errs.Add(imagePart, "image is required")
	}
	if len(errs) > 0 {
		h.WriteValidationError(w, errs)
		return nil, false
	}
	return form, true
}

// eventPartReader returns the "event" JSON whether it was sent as a plain field or as a file part.
func eventPartReader(form *multipart.Form) (io.ReadCloser, error) {
	if values := form.Value[eventPart]; len(values) > 0 {
		return io.NopCloser(strings.NewReader(values[0])), nil
	}
	if files := form.File[eventPart]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			return nil, errors.New("event part is unreadable")
		}
		return f, nil
	}
	return nil, errors.New("event part is required")
}

// saveImage stores the uploaded image and returns its generated name.
func (c *EventController) saveImage(r *http.Request, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: cannot read upload", domain.ErrInvalidFile)
	}
	defer f.Close()
	return c.Images.SaveImage(r.Context(), f, fh.Header.Get("Content-Type"), fh.Filename, fh.Size)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Multipart request with an "event" JSON part and a required "image" file (png, jpg, jpeg or webp, 5 MB max by default). The authenticated profile becomes the owner.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param event formData string true "EventRequest as JSON"
// @Param image formData file true "Event image"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_file"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (categories)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	sub, ok := subject(w, r)
	if !ok {
		return
	}
	form, ok := c.readEventForm(w, r, true)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()

	imageName, err := c.saveImage(r, form.image)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	view, err := c.Service.Create(r.Context(), sub, form.request.input(), imageName)
	if err != nil {
		c.Images.DeleteImage(r.Context(), imageName)
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, view)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Replaces every field of the event. The image is replaced only when an "image" part is sent; categories only when category_ids is non-empty. Only the owner may update.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param event formData string true "EventRequest as JSON"
// @Param image formData file false "New event image"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_file"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	sub, ok := subject(w, r)
	if !ok {
		return
	}
	form, ok := c.readEventForm(w, r, false)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()

	var imageName string
	if form.image != nil {
		if err := c.Service.AuthorizeMutation(r.Context(), sub, id); err != nil {
			h.WriteServiceError(w, r, c.Logger, err)
			return
		}
		name, err := c.saveImage(r, form.image)
		if err != nil {
			h.WriteServiceError(w, r, c.Logger, err)
			return
		}
		imageName = name
	}
	view, err := c.Service.Update(r.Context(), sub, id, form.request.input(), imageName)
	if err != nil {
		if imageName != "" {
			c.Images.DeleteImage(r.Context(), imageName)
		}
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, view)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and its image. Only the owner may delete.
// @Tags events
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	sub, ok := subject(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), sub, id); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEvents godoc
// @Summary List events
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains events ordered by date"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.List(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListEventsByCategory godoc
// @Summary List events in a category
// @Tags events
// @Produce json
// @Param categoryID path int true "Category ID"
// @Success 200 {object} helpers.APIResponse "data contains events ordered by date"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/by-category/{categoryID} [get]
func (c *EventController) ListEventsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}
	events, err := c.Service.ListByCategory(r.Context(), categoryID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListMyEvents godoc
// @Summary List my events
// @Description Events owned by the authenticated profile.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains events ordered by date"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (profile)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/mine [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	sub, ok := subject(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListMine(r.Context(), sub)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}
