package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seekernothing/next-homes/models"
	"github.com/seekernothing/next-homes/utils"
)

// ErrInvalidPagination is returned when page or pageSize is not positive.
var ErrInvalidPagination = errors.New("page and pageSize must be positive")

// QueryOptions describes a property search: a pagination window plus optional
// filter bounds. Nil bounds mean "no constraint".
type QueryOptions struct {
	Page        int
	PageSize    int
	MinPrice    *float64
	MaxPrice    *float64
	MinBedrooms *int
	Statuses    []string
}

func (o QueryOptions) Validate() error {
	if o.Page <= 0 || o.PageSize <= 0 {
		return ErrInvalidPagination
	}
	return nil
}

// Filter builds the document-store predicate. Bounds are inclusive;
// contradictory bounds (minPrice > maxPrice) are passed through unchanged and
// simply match nothing.
func (o QueryOptions) Filter() bson.M {
	filter := bson.M{}
	price := bson.M{}
	if o.MinPrice != nil {
		price["$gte"] = *o.MinPrice
	}
	if o.MaxPrice != nil {
		price["$lte"] = *o.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if o.MinBedrooms != nil {
		filter["bedrooms"] = bson.M{"$gte": *o.MinBedrooms}
	}
	if len(o.Statuses) > 0 {
		filter["status"] = bson.M{"$in": o.Statuses}
	}
	return filter
}

// Skip is the number of records before the requested page. The product is
// capped so huge page values cannot wrap around into a negative skip.
func (o QueryOptions) Skip() int64 {
	if o.Page <= 1 || o.PageSize <= 0 {
		return 0
	}
	if int64(o.Page-1) > math.MaxInt64/int64(o.PageSize) {
		return math.MaxInt64
	}
	return int64(o.Page-1) * int64(o.PageSize)
}

// PropertyPage is one page of search results plus the page count for the
// whole matching set.
type PropertyPage struct {
	Data       []models.Property `json:"data"`
	TotalPages int               `json:"totalPages"`
}

type PropertyRepository struct {
	collection *mongo.Collection
}

func NewPropertyRepository(collection *mongo.Collection) *PropertyRepository {
	return &PropertyRepository{collection: collection}
}

// GetProperties runs the filter, counts the matching set and returns the
// requested page in ascending _id order. ObjectIDs are creation-ordered, so
// repeated calls with the same options return the same slice absent writes.
// A page past the end returns an empty slice with the real page count.
func (r *PropertyRepository) GetProperties(ctx context.Context, opts QueryOptions) (PropertyPage, error) {
	if err := opts.Validate(); err != nil {
		return PropertyPage{}, err
	}

	filter := opts.Filter()
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return PropertyPage{}, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.PageSize))

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return PropertyPage{}, err
	}
	defer cursor.Close(ctx)

	capacity := opts.PageSize
	if capacity > 64 {
		capacity = 64
	}
	data := make([]models.Property, 0, capacity)
	if err := cursor.All(ctx, &data); err != nil {
		return PropertyPage{}, err
	}

	return PropertyPage{
		Data:       data,
		TotalPages: utils.TotalPages(total, opts.PageSize),
	}, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// GetByIDs fetches the given properties and returns them in the order of the
// id list, skipping ids that no longer exist.
func (r *PropertyRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	if len(ids) == 0 {
		return []models.Property{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.Property
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Property, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	ordered := make([]models.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (r *PropertyRepository) Create(ctx context.Context, input models.PropertyInput) (*models.Property, error) {
	now := time.Now()
	property := models.Property{
		Address1:    input.Address1,
		Address2:    input.Address2,
		City:        input.City,
		Postcode:    input.Postcode,
		Price:       input.Price,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Description: input.Description,
		Status:      input.Status,
		Images:      input.Images,
		Created:     now,
		Updated:     now,
	}
	if property.Images == nil {
		property.Images = []string{}
	}

	result, err := r.collection.InsertOne(ctx, property)
	if err != nil {
		return nil, err
	}
	property.ID = result.InsertedID.(primitive.ObjectID)
	return &property, nil
}

func (r *PropertyRepository) Update(ctx context.Context, id primitive.ObjectID, input models.PropertyInput) (*models.Property, error) {
	images := input.Images
	if images == nil {
		images = []string{}
	}
	update := bson.M{
		"address1":    input.Address1,
		"address2":    input.Address2,
		"city":        input.City,
		"postcode":    input.Postcode,
		"price":       input.Price,
		"bedrooms":    input.Bedrooms,
		"bathrooms":   input.Bathrooms,
		"description": input.Description,
		"status":      input.Status,
		"images":      images,
		"updated":     time.Now(),
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// AppendImages pushes storage paths onto the end of the property's image
// list, preserving upload order.
func (r *PropertyRepository) AppendImages(ctx context.Context, id primitive.ObjectID, paths []string) (*models.Property, error) {
	update := bson.M{
		"$push": bson.M{"images": bson.M{"$each": paths}},
		"$set":  bson.M{"updated": time.Now()},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the record. Deleting an absent id is a no-op.
func (r *PropertyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
