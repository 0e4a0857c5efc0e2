// Package store is the document persistence layer behind every handler.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names inside the scholarship database.
const (
	UsersCollection        = "users"
	ListingsCollection     = "university"
	ApplicationsCollection = "applicant"
	PaymentsCollection     = "payment"
	ReviewsCollection      = "review"
)

// ErrInvalidID is returned when an identifier is not a valid ObjectID hex string.
var ErrInvalidID = errors.New("invalid id")

// Collection is the set of operations handlers perform against one collection.
// FindOne returns a nil document and a nil error when nothing matches.
type Collection interface {
	Find(ctx context.Context, filter bson.M) ([]bson.M, error)
	FindOne(ctx context.Context, filter bson.M) (bson.M, error)
	InsertOne(ctx context.Context, doc any) (*InsertResult, error)
	UpdateOne(ctx context.Context, filter, update bson.M, upsert bool) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error)
	Ping(ctx context.Context) error
}

// InsertResult acknowledges an insert.
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

// UpdateResult acknowledges an update or upsert.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

// DeleteResult acknowledges a delete. A zero count is not an error.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Store owns the five collections of the scholarship database.
type Store struct {
	Users        Collection
	Listings     Collection
	Applications Collection
	Payments     Collection
	Reviews      Collection
}

// New binds a Store to a Mongo database.
func New(db *mongo.Database) *Store {
	return &Store{
		Users:        NewMongo(db.Collection(UsersCollection)),
		Listings:     NewMongo(db.Collection(ListingsCollection)),
		Applications: NewMongo(db.Collection(ApplicationsCollection)),
		Payments:     NewMongo(db.Collection(PaymentsCollection)),
		Reviews:      NewMongo(db.Collection(ReviewsCollection)),
	}
}

// ByID builds an _id filter from a hex identifier.
func ByID(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return bson.M{"_id": oid}, nil
}

// Decode copies a stored document into a typed model.
func Decode(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// UpsertByKey applies a $set of fields to the document matching key.
// With upsert the document is created from key and fields when absent.
func UpsertByKey(ctx context.Context, c Collection, key, fields bson.M, upsert bool) (*UpdateResult, error) {
	return c.UpdateOne(ctx, key, bson.M{"$set": fields}, upsert)
}
