package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/arzan03/scholarship-server/internal/models"
	"github.com/arzan03/scholarship-server/internal/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// ImageURLExpiry is how long a presigned image link stays valid.
const ImageURLExpiry = time.Hour

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNoImage         = errors.New("listing has no image")
)

// ObjectStore is the blob storage used for listing images.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	RemoveObject(ctx context.Context, key string) error
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Ping(ctx context.Context) error
}

// ImageService attaches uploaded images to listings.
type ImageService struct {
	objects  ObjectStore
	listings store.Collection
}

// NewImageService creates an ImageService.
func NewImageService(objects ObjectStore, listings store.Collection) *ImageService {
	return &ImageService{objects: objects, listings: listings}
}

// Upload stores the image and records its object key on the listing.
func (s *ImageService) Upload(ctx context.Context, listingID, filename, contentType string, r io.Reader, size int64) (string, error) {
	filter, err := store.ByID(listingID)
	if err != nil {
		return "", err
	}
	listing, err := s.listings.FindOne(ctx, filter)
	if err != nil {
		return "", err
	}
	if listing == nil {
		return "", ErrListingNotFound
	}

	key := fmt.Sprintf("listings/%s/%s%s", listingID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	if err := s.objects.PutObject(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	if _, err := store.UpsertByKey(ctx, s.listings, filter, bson.M{models.ListingImageKeyField: key}, false); err != nil {
		_ = s.objects.RemoveObject(context.WithoutCancel(ctx), key)
		return "", err
	}
	return key, nil
}

// URL returns a presigned link to the listing's image.
func (s *ImageService) URL(ctx context.Context, listingID string) (string, error) {
	filter, err := store.ByID(listingID)
	if err != nil {
		return "", err
	}
	listing, err := s.listings.FindOne(ctx, filter)
	if err != nil {
		return "", err
	}
	if listing == nil {
		return "", ErrListingNotFound
	}
	key, _ := listing[models.ListingImageKeyField].(string)
	if key == "" {
		return "", ErrNoImage
	}
	return s.objects.PresignedGetURL(ctx, key, ImageURLExpiry)
}

// Ping checks the object store.
func (s *ImageService) Ping(ctx context.Context) error {
	return s.objects.Ping(ctx)
}
