package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/afilmory/core/internal/pkg/bizerr"
)

// HandleError renders business errors as JSON with their mapped status.
// It is installed as the fiber ErrorHandler.
func HandleError(c *fiber.Ctx, err error) error {
	if be, ok := bizerr.As(err); ok {
		return c.Status(be.HTTPStatus()).JSON(fiber.Map{
			"error":   strings.ToLower(string(be.Code)),
			"code":    be.Code,
			"message": be.Message,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error":   statusSlug(fe.Code),
			"message": fe.Message,
		})
	}

	log.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_server_error",
		"code":    bizerr.CodeInternal,
		"message": "Internal server error",
	})
}

func statusSlug(code int) string {
	text := utils.StatusMessage(code)
	if text == "" {
		return "error"
	}
	return strings.ToLower(strings.ReplaceAll(text, " ", "_"))
}
