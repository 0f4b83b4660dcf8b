// Package supabase talks to a hosted beneficiaries table through its
// PostgREST endpoint.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/store"
)

const (
	defaultTimeout   = 10 * time.Second
	// defaultPageSize matches the PostgREST max-rows Supabase ships with.
	defaultPageSize  = 1000
	beneficiaryTable = "beneficiaries"
	uniqueViolation  = "23505"
)

var ErrMissingCredentials = errors.New("supabase url and key are required")

type Client struct {
	baseURL  string
	apiKey   string
	timeout  time.Duration
	pageSize int
}

// APIError is a non-2xx PostgREST reply.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = "unexpected response"
	}
	if e.Code != "" {
		return fmt.Sprintf("postgrest %d (%s): %s", e.Status, e.Code, message)
	}
	return fmt.Sprintf("postgrest %d: %s", e.Status, message)
}

func NewClient(baseURL string, apiKey string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	apiKey = strings.TrimSpace(apiKey)
	if baseURL == "" || apiKey == "" {
		return nil, ErrMissingCredentials
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("invalid supabase url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, timeout: timeout, pageSize: defaultPageSize}, nil
}

// insertRow omits id and created_at so the store assigns them.
type insertRow struct {
	Name           *string         `json:"name"`
	CNIC           string          `json:"cnic"`
	Phone          *string         `json:"phone"`
	Designation    *string         `json:"designation"`
	Location       models.Location `json:"location"`
	ZakaatEligible models.TriState `json:"zakaat_eligible"`
	Status         models.Status   `json:"status"`
}

func newInsertRow(record models.Beneficiary) insertRow {
	status := record.Status
	if status == "" {
		status = models.StatusPending
	}
	return insertRow{
		Name:           record.Name,
		CNIC:           record.CNIC,
		Phone:          record.Phone,
		Designation:    record.Designation,
		Location:       record.Location,
		ZakaatEligible: record.ZakaatEligible,
		Status:         status,
	}
}

func (client *Client) Select(ctx context.Context, location models.Location) ([]models.Beneficiary, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("location", "eq."+string(location))
	query.Set("order", "created_at.desc,id.desc")

	list, err := selectAll[models.Beneficiary](ctx, client, query)
	if err != nil {
		return nil, store.Wrap("select", err)
	}
	return list, nil
}

type cnicRow struct {
	CNIC string `json:"cnic"`
}

func (client *Client) SelectCNICs(ctx context.Context) ([]string, error) {
	query := url.Values{}
	query.Set("select", "cnic")
	query.Set("order", "id.asc")

	rows, err := selectAll[cnicRow](ctx, client, query)
	if err != nil {
		return nil, store.Wrap("select cnics", err)
	}
	cnics := make([]string, 0, len(rows))
	for _, row := range rows {
		cnics = append(cnics, row.CNIC)
	}
	return cnics, nil
}

// selectAll pages through query with limit/offset until an empty page comes
// back. PostgREST caps each reply at max-rows without signalling truncation,
// and that cap may sit below pageSize, so a short page is not the end.
// query must carry a total order so pages do not overlap.
func selectAll[T any](ctx context.Context, client *Client, query url.Values) ([]T, error) {
	pageSize := client.pageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	all := make([]T, 0)
	for offset := 0; ; {
		page := url.Values{}
		for key, values := range query {
			page[key] = values
		}
		page.Set("limit", strconv.Itoa(pageSize))
		page.Set("offset", strconv.Itoa(offset))

		var rows []T
		if err := client.do(ctx, fiber.MethodGet, page, nil, false, &rows); err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return all, nil
		}
		all = append(all, rows...)
		offset += len(rows)
	}
}

func (client *Client) FindByID(ctx context.Context, id string) (models.Beneficiary, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id)
	query.Set("limit", "1")

	var list []models.Beneficiary
	if err := client.do(ctx, fiber.MethodGet, query, nil, false, &list); err != nil {
		return models.Beneficiary{}, store.Wrap("find", err)
	}
	if len(list) == 0 {
		return models.Beneficiary{}, store.Wrap("find", store.ErrNotFound)
	}
	return list[0], nil
}

func (client *Client) InsertOne(ctx context.Context, record *models.Beneficiary) (string, error) {
	var created []models.Beneficiary
	if err := client.do(ctx, fiber.MethodPost, nil, []insertRow{newInsertRow(*record)}, true, &created); err != nil {
		return "", store.Wrap("insert", err)
	}
	if len(created) == 0 || created[0].ID == "" {
		return "", store.Wrap("insert", errors.New("no row returned"))
	}
	record.ID = created[0].ID
	record.Status = created[0].Status
	record.CreatedAt = created[0].CreatedAt
	return created[0].ID, nil
}

// InsertMany sends one request. On failure the number of committed rows is
// unknown.
func (client *Client) InsertMany(ctx context.Context, records []models.Beneficiary) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	rows := make([]insertRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, newInsertRow(record))
	}
	if err := client.do(ctx, fiber.MethodPost, nil, rows, false, nil); err != nil {
		return 0, store.Wrap("insert many", err)
	}
	return len(rows), nil
}

func (client *Client) UpdateByID(ctx context.Context, id string, changes models.BeneficiaryChanges) error {
	if changes.IsEmpty() {
		return nil
	}
	query := url.Values{}
	query.Set("id", "eq."+id)

	var updated []struct {
		ID string `json:"id"`
	}
	if err := client.do(ctx, fiber.MethodPatch, query, changes.Columns(), true, &updated); err != nil {
		return store.Wrap("update", err)
	}
	if len(updated) == 0 {
		return store.Wrap("update", store.ErrNotFound)
	}
	return nil
}

func (client *Client) DeleteByID(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)

	var deleted []struct {
		ID string `json:"id"`
	}
	if err := client.do(ctx, fiber.MethodDelete, query, nil, true, &deleted); err != nil {
		return store.Wrap("delete", err)
	}
	if len(deleted) == 0 {
		return store.Wrap("delete", store.ErrNotFound)
	}
	return nil
}

func (client *Client) endpoint(query url.Values) string {
	endpoint := client.baseURL + "/rest/v1/" + beneficiaryTable
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (client *Client) do(ctx context.Context, method string, query url.Values, body any, representation bool, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var agent *fiber.Agent
	switch method {
	case fiber.MethodPost:
		agent = fiber.Post(client.endpoint(query))
	case fiber.MethodPatch:
		agent = fiber.Patch(client.endpoint(query))
	case fiber.MethodDelete:
		agent = fiber.Delete(client.endpoint(query))
	default:
		agent = fiber.Get(client.endpoint(query))
	}

	agent.Set("apikey", client.apiKey)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+client.apiKey)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if representation {
		agent.Set("Prefer", "return=representation")
	} else if method != fiber.MethodGet {
		agent.Set("Prefer", "return=minimal")
	}
	if body != nil {
		agent.JSON(body)
	}
	agent.Timeout(client.requestTimeout(ctx))

	status, payload, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, beneficiaryTable, errors.Join(errs...))
	}
	if status < 200 || status > 299 {
		return decodeAPIError(status, payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", beneficiaryTable, err)
	}
	return nil
}

func (client *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := client.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// decodeAPIError maps a unique violation to store.ErrConflict and keeps the
// PostgREST reply as the cause otherwise.
func decodeAPIError(status int, payload []byte) error {
	apiErr := &APIError{Status: status}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(payload))
		}
	}
	if status == fiber.StatusConflict || apiErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrConflict, apiErr.Error())
	}
	return apiErr
}
