package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/storage"
	"github.com/yeremiapane/bakery-app/utils"
)

type UploadController struct {
	Uploader storage.Uploader
}

func NewUploadController(uploader storage.Uploader) *UploadController {
	return &UploadController{Uploader: uploader}
}

// UploadImage stores a product photo sent as the multipart field "foto" and
// returns its public URL.
func (uc *UploadController) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxImageSize+(1<<20))

	file, err := c.FormFile("foto")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("foto is required"))
		return
	}
	if file.Size > storage.MaxImageSize {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("image must be at most %d MB", storage.MaxImageSize>>20))
		return
	}

	name, err := storage.ObjectName(file.Filename)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("error processing form"))
		return
	}
	defer src.Close()

	url, err := uc.Uploader.Upload(c.Request.Context(), name, file.Header.Get("Content-Type"), src)
	if err != nil {
		utils.ErrorLogger.Errorf("Error uploading %s: %v", file.Filename, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error saving image"))
		return
	}

	utils.InfoLogger.Infof("Image %s uploaded as %s", file.Filename, url)
	utils.RespondJSON(c, http.StatusCreated, "Image uploaded", gin.H{"url": url})
}
