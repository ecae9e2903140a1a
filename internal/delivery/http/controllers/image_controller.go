package controllers

import (
	"io"
	"log/slog"
	"net/http"

	"eventconnect/internal/adapters/storage"
	h "eventconnect/internal/delivery/http/helpers"
	"eventconnect/internal/domain"
)

type ImageController struct {
	Logger *slog.Logger
	Images domain.ImageStorage
}

func NewImageController(logger *slog.Logger, images domain.ImageStorage) *ImageController {
	return &ImageController{Logger: logger, Images: images}
}

// GetImage godoc
// @Summary Get an event image
// @Description Streams a stored image by its generated name. The content type is derived from the extension.
// @Tags images
// @Produce png,jpeg,octet-stream
// @Param filename path string true "Generated file name"
// @Success 200 {file} binary
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_file"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /upload/images/{filename} [get]
func (c *ImageController) GetImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	rc, err := c.Images.Open(r.Context(), name)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", storage.ContentTypeFor(name))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		c.Logger.WarnContext(r.Context(), "image stream interrupted", "name", name, "err", err)
	}
}
