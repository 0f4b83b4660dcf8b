package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/store"
)

func TestToggleLalaFormFlipsPostedStatus(t *testing.T) {
	t.Parallel()

	app, repository := newTestApp(t)
	record := seedBeneficiary(t, repository, models.LocationInsideGIKI, "35202-1212121-2", "Toggle Me")
	cookie := unlockAndExtractCookie(t, app)

	response := sendForm(t, app, http.MethodPost, "/lalas/"+record.ID+"/toggle", url.Values{"status": {"pending"}, "tab": {"inside_giki"}, "q": {"toggle"}}, cookie)
	defer response.Body.Close()
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/?q=toggle" {
		t.Fatalf("expected redirect to keep the search, got %q", location)
	}
	if stored := mustFindBeneficiary(t, repository, record.ID); stored.Status != models.StatusDone {
		t.Fatalf("expected status done, got %q", stored.Status)
	}

	again := sendForm(t, app, http.MethodPost, "/lalas/"+record.ID+"/toggle", url.Values{"status": {"done"}}, cookie)
	again.Body.Close()
	if stored := mustFindBeneficiary(t, repository, record.ID); stored.Status != models.StatusPending {
		t.Fatalf("expected status back to pending, got %q", stored.Status)
	}
}

func TestAPIToggleWithoutStatusReadsCurrentRecord(t *testing.T) {
	t.Parallel()

	app, repository := newTestApp(t)
	record := seedBeneficiary(t, repository, models.LocationOutsideGIKI, "35202-1313131-3", "Api Toggle")
	cookie := unlockAndExtractCookie(t, app)

	response := sendJSON(t, app, http.MethodPost, "/api/lalas/"+record.ID+"/toggle", nil, cookie)
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	if payload["status"] != string(models.StatusDone) || payload["id"] != record.ID {
		t.Fatalf("unexpected toggle payload %+v", payload)
	}

	missing := sendJSON(t, app, http.MethodPost, "/api/lalas/does-not-exist/toggle", map[string]string{"status": "pending"}, cookie)
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", missing.StatusCode)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()

	app, repository := newTestApp(t)
	record := seedBeneficiary(t, repository, models.LocationInsideGIKI, "35202-1414141-4", "Delete Me")
	cookie := unlockAndExtractCookie(t, app)

	unconfirmed := sendJSON(t, app, http.MethodDelete, "/api/lalas/"+record.ID, nil, cookie)
	defer unconfirmed.Body.Close()
	if unconfirmed.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 without confirmation, got %d", unconfirmed.StatusCode)
	}
	if message := readAPIError(t, unconfirmed.Body); message != errorMessageNotConfirmed {
		t.Fatalf("expected error %q, got %q", errorMessageNotConfirmed, message)
	}
	mustFindBeneficiary(t, repository, record.ID)

	confirmed := sendJSON(t, app, http.MethodDelete, "/api/lalas/"+record.ID+"?confirm=true", nil, cookie)
	defer confirmed.Body.Close()
	if confirmed.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 with confirmation, got %d", confirmed.StatusCode)
	}
	if _, err := repository.FindByID(context.Background(), record.ID); !store.IsNotFound(err) {
		t.Fatalf("expected record to be deleted, got %v", err)
	}
}

func TestDeletePageConfirmsThenRemoves(t *testing.T) {
	t.Parallel()

	app, repository := newTestApp(t)
	record := seedBeneficiary(t, repository, models.LocationOutsideGIKI, "35202-1515151-5", "Confirm Page")
	cookie := unlockAndExtractCookie(t, app)

	page := sendGet(t, app, "/lalas/"+record.ID+"/delete?tab=outside_giki", cookie)
	defer page.Body.Close()
	if page.StatusCode != http.StatusOK {
		t.Fatalf("expected confirm page status 200, got %d", page.StatusCode)
	}
	body := readBody(t, page)
	if !strings.Contains(body, "Confirm Page") || !strings.Contains(body, `name="confirm" value="yes"`) {
		t.Fatal("expected confirm page to show the record and a confirm field")
	}

	cancelled := sendForm(t, app, http.MethodPost, "/lalas/"+record.ID+"/delete", url.Values{"tab": {"outside_giki"}}, cookie)
	defer cancelled.Body.Close()
	if cancelled.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", cancelled.StatusCode)
	}
	if flash := decodeFlashCookie(t, cancelled); flash.Error != "delete.error.not_confirmed" {
		t.Fatalf("expected not-confirmed flash, got %+v", flash)
	}
	mustFindBeneficiary(t, repository, record.ID)

	deleted := sendForm(t, app, http.MethodPost, "/lalas/"+record.ID+"/delete", url.Values{"tab": {"outside_giki"}, "confirm": {"yes"}}, cookie)
	defer deleted.Body.Close()
	if location := deleted.Header.Get("Location"); location != "/?tab=outside_giki" {
		t.Fatalf("expected redirect to outside tab, got %q", location)
	}
	if flash := decodeFlashCookie(t, deleted); flash.Success != "delete.success" {
		t.Fatalf("expected delete success flash, got %+v", flash)
	}
	if _, err := repository.FindByID(context.Background(), record.ID); !store.IsNotFound(err) {
		t.Fatalf("expected record to be deleted, got %v", err)
	}
}
