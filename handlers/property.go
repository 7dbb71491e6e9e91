package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seekernothing/next-homes/config"
	"github.com/seekernothing/next-homes/models"
	"github.com/seekernothing/next-homes/repository"
	"github.com/seekernothing/next-homes/utils"
)

const searchCacheTTL = 5 * time.Minute

// maxPageSize bounds caller-supplied page sizes so a single request cannot
// demand an arbitrarily large result allocation.
const maxPageSize = 100

func clampPageSize(n int) int {
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

type PropertyController struct {
	properties *repository.PropertyRepository
	favourites *repository.FavouriteRepository
	images     *repository.ImageStore
}

func NewPropertyController() *PropertyController {
	collectionName := os.Getenv("MONGODB_COLLECTION_PROPERTIES")
	if collectionName == "" {
		collectionName = "properties"
	}
	favouritesName := os.Getenv("MONGODB_COLLECTION_FAVOURITES")
	if favouritesName == "" {
		favouritesName = "favourites"
	}

	images, err := repository.NewImageStore(config.GetDatabase())
	if err != nil {
		log.Fatalf("Failed to open image bucket: %v", err)
	}

	return &PropertyController{
		properties: repository.NewPropertyRepository(config.GetCollection(collectionName)),
		favourites: repository.NewFavouriteRepository(config.GetCollection(favouritesName)),
		images:     images,
	}
}

// SearchProperties serves the public property search. Non-admin callers only
// ever see for-sale listings; an admin token may filter by any status, which
// is how the dashboard lists drafts.
func (pc *PropertyController) SearchProperties(c echo.Context) error {
	ctx := c.Request().Context()

	page := 1
	if p := c.QueryParam("page"); p != "" {
		num, err := strconv.Atoi(p)
		if err != nil || num <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "page must be a positive integer"})
		}
		page = num
	}
	pageSize := 9
	if s := c.QueryParam("pageSize"); s != "" {
		num, err := strconv.Atoi(s)
		if err != nil || num <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "pageSize must be a positive integer"})
		}
		pageSize = clampPageSize(num)
	}

	opts := repository.QueryOptions{Page: page, PageSize: pageSize}
	if v := c.QueryParam("minPrice"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MinPrice = &min
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MaxPrice = &max
		}
	}
	if v := c.QueryParam("minBedrooms"); v != "" {
		if min, err := strconv.Atoi(v); err == nil {
			opts.MinBedrooms = &min
		}
	}

	opts.Statuses = c.QueryParams()["status"]
	if !bearerIsAdmin(c) {
		opts.Statuses = []string{models.StatusForSale}
	}

	cacheKey := utils.GenerateQueryCacheKey(
		fmt.Sprintf("properties:v%d", utils.CacheVersion(ctx, "properties")),
		map[string]string{
			"page":        strconv.Itoa(page),
			"pageSize":    strconv.Itoa(pageSize),
			"minPrice":    c.QueryParam("minPrice"),
			"maxPrice":    c.QueryParam("maxPrice"),
			"minBedrooms": c.QueryParam("minBedrooms"),
			"status":      strings.Join(opts.Statuses, ","),
		},
	)

	var cached repository.PropertyPage
	if ok, err := utils.GetCached(ctx, cacheKey, &cached); err == nil && ok {
		return c.JSON(http.StatusOK, cached)
	}

	result, err := pc.properties.GetProperties(ctx, opts)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidPagination) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch properties"})
	}

	if err := utils.SetCached(ctx, cacheKey, result, searchCacheTTL); err != nil {
		log.Printf("failed to cache search results: %v", err)
	}

	return c.JSON(http.StatusOK, result)
}

func (pc *PropertyController) GetProperty(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}

	property, err := pc.properties.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}
	return c.JSON(http.StatusOK, property)
}

func (pc *PropertyController) CreateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	var input models.PropertyInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if msg := utils.ValidatePropertyInput(input); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": true, "message": msg})
	}

	property, err := pc.properties.Create(ctx, input)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to create property"})
	}

	pc.invalidateSearchCache(c)
	return c.JSON(http.StatusCreated, property)
}

func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}

	existing, err := pc.properties.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	var input models.PropertyInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if msg := utils.ValidatePropertyInput(input); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": true, "message": msg})
	}

	property, err := pc.properties.Update(ctx, id, input)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to update property"})
	}

	if removed := removedPaths(existing.Images, input.Images); len(removed) > 0 {
		pc.images.DeleteAll(ctx, removed)
	}

	pc.invalidateSearchCache(c)
	return c.JSON(http.StatusOK, property)
}

// DeleteProperty removes the record, then cleans up associated images and
// favourites best-effort. Deleting an id that no longer exists succeeds, so
// retried deletes are harmless.
func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}

	property, err := pc.properties.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusOK, map[string]string{"message": "Property deleted successfully"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	if err := pc.properties.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to delete property"})
	}

	pc.images.DeleteAll(ctx, property.Images)
	if err := pc.favourites.RemoveAllForProperty(ctx, id); err != nil {
		log.Printf("failed to remove favourites for property %s: %v", id.Hex(), err)
	}

	pc.invalidateSearchCache(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Property deleted successfully"})
}

// UploadImages stores multipart files under properties/<id>/ and appends
// their paths to the property's ordered image list.
func (pc *PropertyController) UploadImages(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}

	if _, err := pc.properties.GetByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid multipart form"})
	}
	files := form.File["images"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No images provided"})
	}

	paths := make([]string, 0, len(files))
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to read image"})
		}

		path := fmt.Sprintf("properties/%s/%s%s", id.Hex(), uuid.NewString(), filepath.Ext(fileHeader.Filename))
		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		err = pc.images.Upload(path, contentType, src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to store image"})
		}
		paths = append(paths, path)
	}

	property, err := pc.properties.AppendImages(ctx, id, paths)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to update property images"})
	}

	pc.invalidateSearchCache(c)
	return c.JSON(http.StatusOK, property)
}

func (pc *PropertyController) invalidateSearchCache(c echo.Context) {
	if err := utils.BumpCacheVersion(c.Request().Context(), "properties"); err != nil {
		log.Printf("failed to bump search cache version: %v", err)
	}
}

// bearerIsAdmin reports whether the request carries a valid token with the
// admin claim. The search route is public, so a missing or bad token just
// means "not admin" rather than a 401.
func bearerIsAdmin(c echo.Context) bool {
	authHeader := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return false
	}
	return claims.Admin
}

func removedPaths(before, after []string) []string {
	kept := make(map[string]bool, len(after))
	for _, path := range after {
		kept[path] = true
	}
	var removed []string
	for _, path := range before {
		if !kept[path] {
			removed = append(removed, path)
		}
	}
	return removed
}
