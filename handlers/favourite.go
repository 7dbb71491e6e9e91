package handlers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seekernothing/next-homes/config"
	"github.com/seekernothing/next-homes/repository"
	"github.com/seekernothing/next-homes/utils"
)

type FavouriteController struct {
	favourites *repository.FavouriteRepository
	properties *repository.PropertyRepository
}

func NewFavouriteController() *FavouriteController {
	collectionName := os.Getenv("MONGODB_COLLECTION_FAVOURITES")
	if collectionName == "" {
		collectionName = "favourites"
	}
	propertiesName := os.Getenv("MONGODB_COLLECTION_PROPERTIES")
	if propertiesName == "" {
		propertiesName = "properties"
	}
	return &FavouriteController{
		favourites: repository.NewFavouriteRepository(config.GetCollection(collectionName)),
		properties: repository.NewPropertyRepository(config.GetCollection(propertiesName)),
	}
}

// AddFavourite bookmarks a property for the caller. The partition key is
// always the token-derived user id, so a caller can only ever touch their own
// favourites. Adding twice is the same as adding once.
func (fc *FavouriteController) AddFavourite(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(primitive.ObjectID)

	propertyID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}

	if _, err := fc.properties.GetByID(ctx, propertyID); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	if err := fc.favourites.Add(ctx, userID, propertyID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to add favourite"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Property added to favourites"})
}

// RemoveFavourite unbookmarks a property. Removing a favourite that was never
// added is a no-op success.
func (fc *FavouriteController) RemoveFavourite(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	propertyID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}

	if err := fc.favourites.Remove(c.Request().Context(), userID, propertyID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to remove favourite"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Property removed from favourites"})
}

// GetFavourites returns the caller's membership set keyed by property id, the
// shape the search page needs to mark hearts.
func (fc *FavouriteController) GetFavourites(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	membership, err := fc.favourites.Membership(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch favourites"})
	}
	return c.JSON(http.StatusOK, membership)
}

// GetFavouriteProperties lists the caller's favourited properties, paginated
// over the id list in bookmark order.
func (fc *FavouriteController) GetFavouriteProperties(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(primitive.ObjectID)

	page := 1
	if p := c.QueryParam("page"); p != "" {
		num, err := strconv.Atoi(p)
		if err != nil || num <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "page must be a positive integer"})
		}
		page = num
	}
	pageSize := 6
	if s := c.QueryParam("pageSize"); s != "" {
		num, err := strconv.Atoi(s)
		if err != nil || num <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "pageSize must be a positive integer"})
		}
		pageSize = clampPageSize(num)
	}

	ids, err := fc.favourites.PropertyIDs(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch favourites"})
	}

	pageIDs := utils.Paginate(ids, page, pageSize)
	properties, err := fc.properties.GetByIDs(ctx, pageIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch properties"})
	}

	return c.JSON(http.StatusOK, repository.PropertyPage{
		Data:       properties,
		TotalPages: utils.TotalPages(int64(len(ids)), pageSize),
	})
}
