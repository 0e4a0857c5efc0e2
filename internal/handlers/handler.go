package handlers

import (
	"github.com/arzan03/scholarship-server/internal/services"
	"github.com/arzan03/scholarship-server/internal/store"
	"go.uber.org/zap"
)

// Handler owns the scholarship API handlers and their collaborators.
type Handler struct {
	Tokens   *services.TokenService
	Users    *services.UserService
	Payments *services.PaymentService
	// Images is nil when object storage is not configured.
	Images *services.ImageService
	Store  *store.Store
	Log    *zap.Logger

	UserDocs     *Resource
	Listings     *Resource
	Applications *Resource
	PaymentDocs  *Resource
	Reviews      *Resource
}

// New wires a Handler over st. payments and images may be nil for read-only deployments.
func New(st *store.Store, tokens *services.TokenService, payments *services.PaymentService, images *services.ImageService, log *zap.Logger) *Handler {
	return &Handler{
		Tokens:       tokens,
		Users:        services.NewUserService(st.Users),
		Payments:     payments,
		Images:       images,
		Store:        st,
		Log:          log,
		UserDocs:     NewResource(st.Users),
		Listings:     NewResource(st.Listings),
		Applications: NewResource(st.Applications),
		PaymentDocs:  NewResource(st.Payments),
		Reviews:      NewResource(st.Reviews),
	}
}
