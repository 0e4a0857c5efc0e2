package handlers

import (
	"github.com/arzan03/scholarship-server/internal/store"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// Resource serves the uniform CRUD operations over one collection.
// Each handler is a single store call whose result is returned as-is.
type Resource struct {
	coll store.Collection
}

// NewResource binds a Resource to a collection.
func NewResource(coll store.Collection) *Resource {
	return &Resource{coll: coll}
}

// Create inserts the request body and returns the insert acknowledgment.
func (r *Resource) Create(c *fiber.Ctx) error {
	doc, err := parseDocument(c)
	if err != nil {
		return err
	}
	result, err := r.coll.InsertOne(c.UserContext(), doc)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// List returns every document in the collection.
func (r *Resource) List(c *fiber.Ctx) error {
	docs, err := r.coll.Find(c.UserContext(), nil)
	if err != nil {
		return err
	}
	return c.JSON(docs)
}

// ListBy returns the documents whose field equals the named route parameter.
func (r *Resource) ListBy(field, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := r.coll.Find(c.UserContext(), bson.M{field: c.Params(param)})
		if err != nil {
			return err
		}
		return c.JSON(docs)
	}
}

// Get returns the document whose _id is the named route parameter, or null.
func (r *Resource) Get(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := store.ByID(c.Params(param))
		if err != nil {
			return err
		}
		return r.findOne(c, filter)
	}
}

// GetBy returns the first document whose field equals the route parameter, or null.
func (r *Resource) GetBy(field, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return r.findOne(c, bson.M{field: c.Params(param)})
	}
}

func (r *Resource) findOne(c *fiber.Ctx, filter bson.M) error {
	doc, err := r.coll.FindOne(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// Replace merges the request body into the document with the given _id.
// A missing document is left missing.
func (r *Resource) Replace(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := store.ByID(c.Params(param))
		if err != nil {
			return err
		}
		doc, err := parseDocument(c)
		if err != nil {
			return err
		}
		// _id is immutable; clients echo it back with the rest of the listing.
		delete(doc, "_id")
		if len(doc) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "nothing to update")
		}

		result, err := store.UpsertByKey(c.UserContext(), r.coll, filter, doc, false)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

// Delete removes the document with the given _id. Deleting nothing is not an error.
func (r *Resource) Delete(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := store.ByID(c.Params(param))
		if err != nil {
			return err
		}
		result, err := r.coll.DeleteOne(c.UserContext(), filter)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}
