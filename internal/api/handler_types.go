package api

import (
	"html/template"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/rationportal/internal/i18n"
	"github.com/terraincognita07/rationportal/internal/services"
	"go.uber.org/zap"
)

type Handler struct {
	beneficiaries *services.BeneficiaryService
	importer      *services.Importer
	gate          *services.AccessGate
	tokenKey      []byte
	cookieCodec   *secureCookieCodec
	cookieSecure  bool
	i18n          *i18n.Manager
	templates     map[string]*template.Template
	logger        *zap.Logger
}

// HandlerConfig carries everything NewHandler needs besides the store.
type HandlerConfig struct {
	SecretKey     string
	AdminPassword string
	TemplateDir   string
	CookieSecure  bool
	ImportMode    services.ImportMode
	I18n          *i18n.Manager
	Logger        *zap.Logger
}

// FlashPayload survives one redirect. Error, Notice and Success hold
// translation keys.
type FlashPayload struct {
	Error    string `json:"error,omitempty"`
	Notice   string `json:"notice,omitempty"`
	Success  string `json:"success,omitempty"`
	Inserted int    `json:"inserted,omitempty"`
	Skipped  int    `json:"skipped,omitempty"`
}

const unlockTokenTTL = 30 * 24 * time.Hour

const unlockTokenPurpose = "unlock"

type unlockClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}
