package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/db"
	"github.com/terraincognita07/rationportal/internal/i18n"
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
	"go.uber.org/zap"
)

const (
	testSecretKey     = "0123456789abcdef0123456789abcdef"
	testAdminPassword = "open-sesame"
)

type testAppOptions struct {
	cookieSecure  bool
	importMode    services.ImportMode
	adminPassword string
	configure     func(*Handler)
}

func newTestApp(t *testing.T) (*fiber.App, *db.BeneficiaryRepository) {
	t.Helper()
	return newTestAppWithOptions(t, testAppOptions{})
}

func newTestAppWithOptions(t *testing.T, options testAppOptions) (*fiber.App, *db.BeneficiaryRepository) {
	t.Helper()

	_, testFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve current test file path")
	}

	apiDir := filepath.Dir(testFile)
	internalDir := filepath.Dir(apiDir)
	templatesDir := filepath.Join(internalDir, "templates")
	localesDir := filepath.Join(internalDir, "i18n", "locales")
	databasePath := filepath.Join(t.TempDir(), "rationportal-test.db")

	database, err := db.OpenSQLite(databasePath, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	i18nManager, err := i18n.NewManager("en", localesDir)
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	adminPassword := options.adminPassword
	if adminPassword == "" {
		adminPassword = testAdminPassword
	}

	repository := db.NewBeneficiaryRepository(database)
	handler, err := NewHandler(repository, HandlerConfig{
		SecretKey:     testSecretKey,
		AdminPassword: adminPassword,
		TemplateDir:   templatesDir,
		CookieSecure:  options.cookieSecure,
		ImportMode:    options.importMode,
		I18n:          i18nManager,
		Logger:        zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	if options.configure != nil {
		options.configure(handler)
	}

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, repository
}

// unlockAndExtractCookie posts the admin password and returns the unlock
// cookie as a Cookie header value.
func unlockAndExtractCookie(t *testing.T, app *fiber.App) string {
	t.Helper()

	response := sendForm(t, app, http.MethodPost, "/unlock", url.Values{"code": {testAdminPassword}}, "")
	defer response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected unlock status 303, got %d", response.StatusCode)
	}
	cookie := responseCookie(response.Cookies(), unlockCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("unlock cookie is missing in unlock response")
	}
	return cookie.Name + "=" + cookie.Value
}

func sendRequest(t *testing.T, app *fiber.App, request *http.Request, cookie string) *http.Response {
	t.Helper()

	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	return response
}

func newGetRequest(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

func sendGet(t *testing.T, app *fiber.App, path string, cookie string) *http.Response {
	t.Helper()
	return sendRequest(t, app, newGetRequest(path), cookie)
}

func sendForm(t *testing.T, app *fiber.App, method string, path string, form url.Values, cookie string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return sendRequest(t, app, request, cookie)
}

func sendJSON(t *testing.T, app *fiber.App, method string, path string, payload any, cookie string) *http.Response {
	t.Helper()

	var body io.Reader = http.NoBody
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	return sendRequest(t, app, request, cookie)
}

func sendUpload(t *testing.T, app *fiber.App, path string, fields map[string]string, filename string, content []byte, cookie string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, path, &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return sendRequest(t, app, request, cookie)
}

func seedBeneficiary(t *testing.T, repository *db.BeneficiaryRepository, location models.Location, cnic string, name string) models.Beneficiary {
	t.Helper()

	record := models.Beneficiary{
		CNIC:     cnic,
		Name:     models.OptionalString(name),
		Location: location,
		Status:   models.StatusPending,
	}
	id, err := repository.InsertOne(context.Background(), &record)
	if err != nil {
		t.Fatalf("seed beneficiary %s: %v", cnic, err)
	}
	record.ID = id
	return record
}

func mustFindBeneficiary(t *testing.T, repository *db.BeneficiaryRepository, id string) models.Beneficiary {
	t.Helper()

	record, err := repository.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find beneficiary %s: %v", id, err)
	}
	return record
}
