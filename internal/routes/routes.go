package routes

import (
	"github.com/arzan03/scholarship-server/internal/handlers"
	"github.com/arzan03/scholarship-server/internal/middleware"
	"github.com/arzan03/scholarship-server/internal/models"
	"github.com/gofiber/fiber/v2"
)

// Options selects which route sets are mounted.
type Options struct {
	// ReadOnly mounts only the GET routes.
	ReadOnly bool
}

// Register mounts the scholarship API on app.
func Register(app fiber.Router, h *handlers.Handler, opts Options) {
	app.Get("/", h.Root)
	app.Get("/healthz", h.Health)

	readRoutes(app, h)
	if opts.ReadOnly {
		return
	}
	writeRoutes(app, h)
	if h.Images != nil {
		app.Post("/scholarship/:id/image", h.UploadListingImage)
	}
}

func readRoutes(app fiber.Router, h *handlers.Handler) {
	app.Get("/users", middleware.Authenticate(h.Tokens, h.Log), middleware.RequireAdmin(h.Users, h.Log), h.ListUsers)
	app.Get("/user/:email", h.GetUser)

	app.Get("/university", h.Listings.List)
	app.Get("/university/:id", h.Listings.Get("id"))
	app.Get("/manage-scholarships/:email", h.Listings.ListBy(models.ListingHostEmailField, "email"))
	if h.Images != nil {
		app.Get("/scholarship/:id/image", h.ListingImageURL)
	}

	app.Get("/reviews", h.Reviews.List)
	app.Get("/my-reviews/:email", h.Reviews.ListBy(models.ReviewAuthorEmailField, "email"))

	// Applications are read back from the payments collection.
	app.Get("/my-apply/:email", h.PaymentDocs.ListBy(models.PaymentUserEmailField, "email"))
	app.Get("/payment", h.PaymentDocs.List)
}

func writeRoutes(app fiber.Router, h *handlers.Handler) {
	app.Post("/jwt", h.IssueToken)

	app.Put("/user", h.SaveUser)
	app.Patch("/users/update/:email", h.UpdateUser)
	app.Delete("/users/:id", h.DeleteUser)

	app.Post("/scholarship", h.Listings.Create)
	app.Put("/scholarship/update/:id", h.Listings.Replace("id"))
	app.Delete("/scholarship/:id", h.Listings.Delete("id"))

	app.Post("/review", h.Reviews.Create)
	app.Delete("/reviews/:id", h.Reviews.Delete("id"))

	app.Post("/apply", h.Applications.Create)
	// Cancelling an application removes its payment record.
	app.Delete("/apply/:id", h.PaymentDocs.Delete("id"))

	app.Post("/payments", h.PaymentDocs.Create)
	app.Post("/create-payment-intent", h.CreatePaymentIntent)
}
