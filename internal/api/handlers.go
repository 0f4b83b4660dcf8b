package api

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/rationportal/internal/services"
	"go.uber.org/zap"
)

func NewHandler(store services.BeneficiaryStore, config HandlerConfig) (*Handler, error) {
	if store == nil {
		return nil, errors.New("beneficiary store is required")
	}
	if config.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if config.AdminPassword == "" {
		return nil, services.ErrGateSecretMissing
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	keys, err := deriveHandlerKeys([]byte(config.SecretKey))
	if err != nil {
		return nil, err
	}
	codec, err := newSecureCookieCodec(keys.cookie)
	if err != nil {
		return nil, err
	}

	templates, err := parsePageTemplates(config.TemplateDir, newTemplateFuncMap(), pageTemplates)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	handler := &Handler{
		gate:         services.NewAccessGate(config.AdminPassword),
		tokenKey:     keys.token,
		cookieCodec:  codec,
		cookieSecure: config.CookieSecure,
		i18n:         config.I18n,
		templates:    templates,
		logger:       logger,
	}
	return handler.withDependencies(store, config.ImportMode), nil
}
