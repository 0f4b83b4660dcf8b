package api

import (
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/services"
	"github.com/terraincognita07/rationportal/internal/store"
	"go.uber.org/zap"
)

const (
	errorMessageLocked          = "locked"
	errorMessageInvalidCode     = "invalid code"
	errorMessageInvalidInput    = "invalid input"
	errorMessageCNICRequired    = "cnic is required"
	errorMessageInvalidTab      = "invalid location"
	errorMessageCNICExists      = "cnic already exists"
	errorMessageNotFound        = "not found"
	errorMessageNotConfirmed    = "delete not confirmed"
	errorMessageStore           = "store unavailable"
	errorMessageInternal        = "internal error"
	errorMessageFileRequired    = "file is required"
	errorMessageUnsupportedFile = "unsupported file"
	errorMessageNoRows          = "no rows"
	errorMessageTooManyRows     = "too many rows"
)

func redirectOrJSON(c *fiber.Ctx, path string) error {
	if isHTMX(c) {
		c.Set("HX-Redirect", path)
		return c.SendStatus(fiber.StatusOK)
	}
	if acceptsJSON(c) || isAPIPath(c) {
		return c.JSON(fiber.Map{"ok": true})
	}
	return c.Redirect(path, fiber.StatusSeeOther)
}

func apiError(c *fiber.Ctx, status int, message string) error {
	if isHTMX(c) {
		rendered := message
		if key := errorTranslationKey(message); key != "" {
			if localized := translateMessage(currentMessages(c), key); localized != key {
				rendered = localized
			}
		}
		return c.Status(status).SendString(fmt.Sprintf("<div class=\"status-error\">%s</div>", template.HTMLEscapeString(rendered)))
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// classifyError maps service and store errors onto an HTTP status and a
// stable error message.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrCNICRequired):
		return fiber.StatusUnprocessableEntity, errorMessageCNICRequired
	case errors.Is(err, services.ErrInvalidLocation):
		return fiber.StatusUnprocessableEntity, errorMessageInvalidTab
	case services.IsValidationError(err):
		return fiber.StatusUnprocessableEntity, errorMessageInvalidInput
	case store.IsConflict(err):
		return fiber.StatusConflict, errorMessageCNICExists
	case store.IsNotFound(err):
		return fiber.StatusNotFound, errorMessageNotFound
	case errors.Is(err, services.ErrDeleteNotConfirmed):
		return fiber.StatusBadRequest, errorMessageNotConfirmed
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return fiber.StatusBadGateway, errorMessageStore
	}
	return fiber.StatusInternalServerError, errorMessageInternal
}

func (handler *Handler) respondError(c *fiber.Ctx, err error) error {
	handler.logRequestError(c, err)
	status, message := classifyError(err)
	return apiError(c, status, message)
}

// logRequestError logs failures that are not the client's fault.
func (handler *Handler) logRequestError(c *fiber.Ctx, err error) {
	if status, _ := classifyError(err); status >= fiber.StatusInternalServerError {
		handler.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
}

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(strings.ToLower(c.Get("Accept")), "application/json")
}

func isAPIPath(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

func isJSONBody(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}

func isHTMX(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Get("HX-Request"), "true")
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

func localizedPageTitle(messages map[string]string, key string, fallback string) string {
	title := translateMessage(messages, key)
	if title == key || strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}

func sanitizeRedirectPath(raw string, fallback string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return fallback
	}
	if strings.HasPrefix(candidate, "//") || !strings.HasPrefix(candidate, "/") {
		return fallback
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.IsAbs() {
		return fallback
	}
	return candidate
}
