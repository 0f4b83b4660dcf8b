package services

import (
	"context"
	"errors"
	"testing"

	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/store"
)

func TestCreateRequiresTrimmedCNIC(t *testing.T) {
	memory := newMemoryStore()
	service := newServiceForTest(memory)

	_, err := service.Create(context.Background(), models.LocationInsideGIKI, BeneficiaryForm{CNIC: "   ", Name: "Ali"})
	if !IsValidationError(err) || !errors.Is(err, ErrCNICRequired) {
		t.Fatalf("expected cnic validation error, got %v", err)
	}
	if memory.insertCalls != 0 {
		t.Fatal("validation failure must not reach the store")
	}
}

func TestCreateRejectsUnknownLocation(t *testing.T) {
	service := newServiceForTest(newMemoryStore())

	_, err := service.Create(context.Background(), models.Location("lahore"), BeneficiaryForm{CNIC: "A"})
	if !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestCreateStoresBlanksAsNullAndStartsPending(t *testing.T) {
	memory := newMemoryStore()
	service := newServiceForTest(memory)
	ctx := context.Background()

	created, err := service.Create(ctx, models.LocationOutsideGIKI, BeneficiaryForm{
		CNIC:           "  42101  ",
		Name:           "Hina",
		Phone:          "   ",
		ZakaatEligible: "yes",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := memory.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.CNIC != "42101" {
		t.Fatalf("expected trimmed cnic, got %q", loaded.CNIC)
	}
	if loaded.Phone != nil || loaded.Designation != nil {
		t.Fatal("expected blank optional fields stored as null")
	}
	if loaded.Location != models.LocationOutsideGIKI || loaded.Status != models.StatusPending {
		t.Fatalf("unexpected location/status %q/%q", loaded.Location, loaded.Status)
	}
	if !loaded.ZakaatEligible.IsTrue() {
		t.Fatal("expected zakaat eligible")
	}
	if !service.KnownCNICs().Contains("42101") {
		t.Fatal("expected known set refreshed after create")
	}
}

func TestCreateDuplicateCNICAnywhereIsConflict(t *testing.T) {
	memory := newMemoryStore(inside("A"))
	service := newServiceForTest(memory)

	_, err := service.Create(context.Background(), models.LocationOutsideGIKI, BeneficiaryForm{CNIC: "A"})
	if !store.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if IsValidationError(err) {
		t.Fatal("conflict must be distinct from validation errors")
	}
	if memory.count() != 1 {
		t.Fatalf("expected no duplicate row, have %d", memory.count())
	}
}

func TestCreateStoreFailureIsNotConflict(t *testing.T) {
	memory := newMemoryStore()
	memory.insertOneErr = map[string]error{"A": errStoreDown}
	service := newServiceForTest(memory)

	_, err := service.Create(context.Background(), models.LocationInsideGIKI, BeneficiaryForm{CNIC: "A"})
	if err == nil || store.IsConflict(err) {
		t.Fatalf("expected generic store error, got %v", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestUpdateChangesDetailsOnly(t *testing.T) {
	memory := newMemoryStore(inside("A"))
	service := newServiceForTest(memory)
	ctx := context.Background()
	list, _ := memory.Select(ctx, models.LocationInsideGIKI)
	id := list[0].ID

	err := service.Update(ctx, id, BeneficiaryForm{CNIC: "ignored", Name: "New Name", Designation: "", ZakaatEligible: "no"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	loaded, _ := memory.FindByID(ctx, id)
	if loaded.CNIC != "A" || loaded.Location != models.LocationInsideGIKI {
		t.Fatal("cnic and location must not change on edit")
	}
	if models.StringValue(loaded.Name) != "New Name" || loaded.Designation != nil {
		t.Fatalf("unexpected details %#v", loaded)
	}
	if loaded.ZakaatEligible != models.TriFalse {
		t.Fatalf("expected zakaat false, got %v", loaded.ZakaatEligible)
	}
	if loaded.Status != models.StatusPending {
		t.Fatal("edit must not change status")
	}
}

func TestFormFromBeneficiaryRoundTrip(t *testing.T) {
	record := models.Beneficiary{
		CNIC:           "A",
		Name:           models.OptionalString("Ali"),
		ZakaatEligible: models.TriFalse,
	}
	form := FormFromBeneficiary(record)
	if form.Name != "Ali" || form.Phone != "" || form.ZakaatEligible != "false" {
		t.Fatalf("unexpected form %#v", form)
	}
	details := form.Details()
	if details.ZakaatEligible != models.TriFalse || details.Phone != nil {
		t.Fatalf("unexpected details %#v", details)
	}
}
