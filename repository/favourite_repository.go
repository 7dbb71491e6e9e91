package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seekernothing/next-homes/models"
)

// FavouriteRepository stores the user-to-property bookmark relation.
// Presence of a (userId, propertyId) document means favourited; there is no
// boolean field to flip.
type FavouriteRepository struct {
	collection *mongo.Collection
}

func NewFavouriteRepository(collection *mongo.Collection) *FavouriteRepository {
	return &FavouriteRepository{collection: collection}
}

// Add records the relation. Upsert keyed on the pair makes the call
// idempotent: adding an existing favourite leaves the document untouched.
func (r *FavouriteRepository) Add(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	filter := bson.M{"userId": userID, "propertyId": propertyID}
	update := bson.M{"$setOnInsert": bson.M{
		"userId":     userID,
		"propertyId": propertyID,
		"createdAt":  time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Remove deletes the relation. Removing an absent favourite is a no-op.
func (r *FavouriteRepository) Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "propertyId": propertyID})
	return err
}

// Membership returns the caller's favourites as a set keyed by property id.
func (r *FavouriteRepository) Membership(ctx context.Context, userID primitive.ObjectID) (map[string]bool, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	membership := make(map[string]bool)
	for cursor.Next(ctx) {
		var favourite models.Favourite
		if err := cursor.Decode(&favourite); err != nil {
			continue
		}
		membership[favourite.PropertyID.Hex()] = true
	}
	return membership, cursor.Err()
}

// PropertyIDs lists the caller's favourited property ids oldest-first, so
// paginating over the list is stable.
func (r *FavouriteRepository) PropertyIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var favourite models.Favourite
		if err := cursor.Decode(&favourite); err != nil {
			continue
		}
		ids = append(ids, favourite.PropertyID)
	}
	return ids, cursor.Err()
}

func (r *FavouriteRepository) RemoveAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

func (r *FavouriteRepository) RemoveAllForProperty(ctx context.Context, propertyID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"propertyId": propertyID})
	return err
}
