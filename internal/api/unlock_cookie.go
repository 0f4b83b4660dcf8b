package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/rationportal/internal/services"
)

var errInvalidUnlockToken = errors.New("invalid unlock token")

// cookieAccessFlags keeps the unlocked flag in the ration_unlocked cookie of
// one request.
type cookieAccessFlags struct {
	handler *Handler
	c       *fiber.Ctx
}

func (handler *Handler) accessFlags(c *fiber.Ctx) services.AccessFlagStore {
	return cookieAccessFlags{handler: handler, c: c}
}

func (flags cookieAccessFlags) LoadUnlocked() bool {
	raw := flags.c.Cookies(unlockCookieName)
	if raw == "" {
		return false
	}
	return flags.handler.verifyUnlockCookie(raw) == nil
}

func (flags cookieAccessFlags) SaveUnlocked() error {
	value, err := flags.handler.issueUnlockCookie(time.Now())
	if err != nil {
		return err
	}
	flags.c.Cookie(&fiber.Cookie{
		Name:     unlockCookieName,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   flags.handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(unlockTokenTTL),
	})
	return nil
}

func (flags cookieAccessFlags) ClearUnlocked() {
	flags.c.Cookie(&fiber.Cookie{
		Name:     unlockCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   flags.handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func (handler *Handler) issueUnlockCookie(now time.Time) (string, error) {
	claims := unlockClaims{
		Purpose: unlockTokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(unlockTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.tokenKey)
	if err != nil {
		return "", fmt.Errorf("sign unlock token: %w", err)
	}
	return handler.cookieCodec.seal(unlockTokenPurpose, []byte(token))
}

func (handler *Handler) verifyUnlockCookie(raw string) error {
	tokenValue, err := handler.cookieCodec.open(unlockTokenPurpose, raw)
	if err != nil {
		return err
	}

	claims := &unlockClaims{}
	token, err := jwt.ParseWithClaims(string(tokenValue), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.tokenKey, nil
	})
	if err != nil || !token.Valid {
		return errInvalidUnlockToken
	}
	if claims.Purpose != unlockTokenPurpose {
		return errInvalidUnlockToken
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return errInvalidUnlockToken
	}
	return nil
}
