package handlers

import (
	"github.com/arzan03/scholarship-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

// UploadListingImage stores the multipart "file" field as the listing's image.
func (h *Handler) UploadListingImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to retrieve file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to open file")
	}
	defer file.Close()

	key, err := h.Images.Upload(c.UserContext(), c.Params("id"),
		fileHeader.Filename, fileHeader.Header.Get(fiber.HeaderContentType), file, fileHeader.Size)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Image uploaded successfully", "image_key": key})
}

// ListingImageURL returns a short-lived link to the listing's image.
func (h *Handler) ListingImageURL(c *fiber.Ctx) error {
	url, err := h.Images.URL(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"url":        url,
		"expires_in": services.ImageURLExpiry.String(),
	})
}
