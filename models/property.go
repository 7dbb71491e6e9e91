package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusDraft     = "draft"
	StatusForSale   = "for-sale"
	StatusWithdrawn = "withdrawn"
	StatusSold      = "sold"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusForSale, StatusWithdrawn, StatusSold:
		return true
	}
	return false
}

type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Address1    string             `bson:"address1" json:"address1"`
	Address2    string             `bson:"address2,omitempty" json:"address2,omitempty"`
	City        string             `bson:"city" json:"city"`
	Postcode    string             `bson:"postcode" json:"postcode"`
	Price       float64            `bson:"price" json:"price"`
	Bedrooms    int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms   int                `bson:"bathrooms" json:"bathrooms"`
	Description string             `bson:"description" json:"description"`
	Status      string             `bson:"status" json:"status"`
	Images      []string           `bson:"images" json:"images"`
	Created     time.Time          `bson:"created" json:"created"`
	Updated     time.Time          `bson:"updated" json:"updated"`
}

// PropertyInput is the payload accepted by the admin create/update endpoints.
// Images carries the full ordered path list; paths dropped on update are
// removed from storage best-effort.
type PropertyInput struct {
	Address1    string   `json:"address1"`
	Address2    string   `json:"address2"`
	City        string   `json:"city"`
	Postcode    string   `json:"postcode"`
	Price       float64  `json:"price"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Images      []string `json:"images"`
}
