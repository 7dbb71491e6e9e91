package handlers

import (
	"log"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo/gridfs"

	"github.com/seekernothing/next-homes/config"
	"github.com/seekernothing/next-homes/repository"
)

type ImageController struct {
	images *repository.ImageStore
}

func NewImageController() *ImageController {
	images, err := repository.NewImageStore(config.GetDatabase())
	if err != nil {
		log.Fatalf("Failed to open image bucket: %v", err)
	}
	return &ImageController{images: images}
}

// GetImage streams a stored blob by its storage path. The path arrives as the
// wildcard remainder of the route and may be URL-encoded, matching the
// encoded single-segment scheme the web client uses.
func (ic *ImageController) GetImage(c echo.Context) error {
	path := c.Param("*")
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	if path == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Image path is required"})
	}

	data, contentType, err := ic.images.Download(path)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Image not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch image"})
	}

	return c.Blob(http.StatusOK, contentType, data)
}
