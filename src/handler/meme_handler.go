package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memecontest/backend/src/domain"
	"github.com/memecontest/backend/src/service"
	"github.com/rs/zerolog"
)

type MemeHandler struct {
	uploadService  *service.UploadService
	listingService *service.ListingService
	maxUploadBytes int64
}

func NewMemeHandler(uploadService *service.UploadService, listingService *service.ListingService, maxUploadBytes int64) *MemeHandler {
	return &MemeHandler{
		uploadService:  uploadService,
		listingService: listingService,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *MemeHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "meme").Logger()
	return &l
}

// UploadMemeResponse is returned after a successful upload
type UploadMemeResponse struct {
	Message string       `json:"message"`
	Meme    *domain.Meme `json:"meme"`
}

// Upload godoc
// @Summary Upload a meme
// @Description Store an image and add it to the contest catalog
// @Tags memes
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Param title formData string false "Meme title"
// @Success 201 {object} UploadMemeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/upload [post]
func (h *MemeHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("File too large")))
			return
		}
		h.logger(ctx).Debug().Err(err).Msg("upload without file")
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, service.ErrNoFile, domain.WithMsg("No file provided")))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Failed to upload meme")))
		return
	}
	defer file.Close()

	meme, err := h.uploadService.Upload(ctx, service.UploadInput{
		Title: c.PostForm("title"),
		File: &service.FilePayload{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Reader:      file,
		},
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UploadMemeResponse{
		Message: "Meme uploaded successfully",
		Meme:    meme,
	})
}

// List godoc
// @Summary List memes
// @Description All memes, newest first
// @Tags memes
// @Produce json
// @Success 200 {array} domain.Meme
// @Failure 500 {object} ErrorResponse
// @Router /api/memes [get]
func (h *MemeHandler) List(c *gin.Context) {
	memes, err := h.listingService.ListMemes(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, memes)
}
