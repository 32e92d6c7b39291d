package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memecontest/backend/src/domain"
	"github.com/memecontest/backend/src/storage"
)

type BlobHandler struct {
	blobs storage.BlobStore
}

func NewBlobHandler(blobs storage.BlobStore) *BlobHandler {
	return &BlobHandler{blobs: blobs}
}

// Serve godoc
// @Summary Fetch an uploaded file
// @Tags uploads
// @Produce octet-stream
// @Param name path string true "Blob name"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /uploads/{name} [get]
func (h *BlobHandler) Serve(c *gin.Context) {
	name := c.Param("name")

	rc, info, err := h.blobs.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			respondWithError(c, domain.NewError(domain.ErrorCodeResourceNotFound, err, domain.WithMsg("File not found")))
			return
		}
		respondWithError(c, domain.NewError(domain.ErrorCodeStorageFailure, err, domain.WithMsg("Failed to read file")))
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, map[string]string{
		"X-Content-Type-Options": "nosniff",
	})
}
