package db

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/store"
)

func newBeneficiaryRepositoryForTest(t *testing.T) *BeneficiaryRepository {
	t.Helper()
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "ration-repo.db"))
	return NewBeneficiaryRepository(database)
}

func TestInsertOneAssignsIDAndDefaults(t *testing.T) {
	repo := newBeneficiaryRepositoryForTest(t)
	ctx := context.Background()

	record := models.Beneficiary{
		CNIC:     "35202-1234567-1",
		Name:     models.OptionalString("Gul Khan"),
		Location: models.LocationInsideGIKI,
	}
	id, err := repo.InsertOne(ctx, &record)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == "" {
		t.Fatal("expected store-assigned id")
	}

	loaded, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Status != models.StatusPending {
		t.Fatalf("expected pending status, got %q", loaded.Status)
	}
	if loaded.ZakaatEligible != models.TriUnset {
		t.Fatalf("expected unset zakaat flag, got %v", loaded.ZakaatEligible)
	}
	if loaded.Phone != nil {
		t.Fatalf("expected NULL phone, got %q", *loaded.Phone)
	}
	if loaded.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be assigned")
	}
}

func TestInsertOneDuplicateCNICAcrossLocationsIsConflict(t *testing.T) {
	repo := newBeneficiaryRepositoryForTest(t)
	ctx := context.Background()

	first := models.Beneficiary{CNIC: "A", Location: models.LocationInsideGIKI}
	if _, err := repo.InsertOne(ctx, &first); err != nil {
		t.Fatalf("insert first: %v", err)
	}

	second := models.Beneficiary{CNIC: "A", Location: models.LocationOutsideGIKI}
	_, err := repo.InsertOne(ctx, &second)
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	cnics, err := repo.SelectCNICs(ctx)
	if err != nil {
		t.Fatalf("select cnics: %v", err)
	}
	if len(cnics) != 1 {
		t.Fatalf("expected exactly one row after conflict, got %v", cnics)
	}
}

func TestSelectFiltersByLocationNewestFirst(t *testing.T) {
	repo := newBeneficiaryRepositoryForTest(t)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	records := []models.Beneficiary{
		{CNIC: "older", Location: models.LocationInsideGIKI, CreatedAt: base},
		{CNIC: "outside", Location: models.LocationOutsideGIKI, CreatedAt: base.Add(time.Hour)},
		{CNIC: "newer", Location: models.LocationInsideGIKI, CreatedAt: base.Add(2 * time.Hour)},
	}
	for index := range records {
		if _, err := repo.InsertOne(ctx, &records[index]); err != nil {
			t.Fatalf("insert %s: %v", records[index].CNIC, err)
		}
	}

	inside, err := repo.Select(ctx, models.LocationInsideGIKI)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(inside) != 2 || inside[0].CNIC != "newer" || inside[1].CNIC != "older" {
		t.Fatalf("expected [newer older], got %#v", inside)
	}

	cnics, err := repo.SelectCNICs(ctx)
	if err != nil {
		t.Fatalf("select cnics: %v", err)
	}
	sort.Strings(cnics)
	if len(cnics) != 3 || cnics[0] != "newer" || cnics[1] != "older" || cnics[2] != "outside" {
		t.Fatalf("expected cnics across both locations, got %v", cnics)
	}
}

func TestInsertManyReportsCountAndRejectsDuplicates(t *testing.T) {
	repo := newBeneficiaryRepositoryForTest(t)
	ctx := context.Background()

	count, err := repo.InsertMany(ctx, []models.Beneficiary{
		{CNIC: "A", Location: models.LocationOutsideGIKI},
		{CNIC: "B", Location: models.LocationOutsideGIKI, ZakaatEligible: models.TriTrue},
	})
	if err != nil {
		t.Fatalf("insert many: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 inserted, got %d", count)
	}

	_, err = repo.InsertMany(ctx, []models.Beneficiary{
		{CNIC: "C", Location: models.LocationOutsideGIKI},
		{CNIC: "A", Location: models.LocationOutsideGIKI},
	})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict for duplicate batch, got %v", err)
	}

	empty, err := repo.InsertMany(ctx, nil)
	if err != nil || empty != 0 {
		t.Fatalf("expected empty batch to be a no-op, got %d %v", empty, err)
	}
}

func TestUpdateByIDAppliesPartialChanges(t *testing.T) {
	repo := newBeneficiaryRepositoryForTest(t)
	ctx := context.Background()

	record := models.Beneficiary{
		CNIC:           "A",
		Name:           models.OptionalString("Old"),
		Phone:          models.OptionalString("0300"),
		Location:       models.LocationInsideGIKI,
		ZakaatEligible: models.TriTrue,
	}
	id, err := repo.InsertOne(ctx, &record)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	done := models.StatusDone
	if err := repo.UpdateByID(ctx, id, models.BeneficiaryChanges{Status: &done}); err != nil {
		t.Fatalf("update status: %v", err)
	}
	loaded, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Status != models.StatusDone || models.StringValue(loaded.Name) != "Old" {
		t.Fatalf("expected only status to change, got %#v", loaded)
	}

	details := models.BeneficiaryDetails{Name: models.OptionalString("New"), ZakaatEligible: models.TriFalse}
	if err := repo.UpdateByID(ctx, id, models.BeneficiaryChanges{Details: &details}); err != nil {
		t.Fatalf("update details: %v", err)
	}
	loaded, err = repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if models.StringValue(loaded.Name) != "New" || loaded.Phone != nil || loaded.ZakaatEligible != models.TriFalse {
		t.Fatalf("expected details to be replaced, got %#v", loaded)
	}
	if loaded.CNIC != "A" || loaded.Location != models.LocationInsideGIKI || loaded.Status != models.StatusDone {
		t.Fatalf("expected immutable fields to stay, got %#v", loaded)
	}
}

func TestUpdateAndDeleteMissingIDReturnNotFound(t *testing.T) {
	repo := newBeneficiaryRepositoryForTest(t)
	ctx := context.Background()

	done := models.StatusDone
	if err := repo.UpdateByID(ctx, "missing", models.BeneficiaryChanges{Status: &done}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := repo.DeleteByID(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on find, got %v", err)
	}
}

func TestDeleteByIDRemovesRecord(t *testing.T) {
	repo := newBeneficiaryRepositoryForTest(t)
	ctx := context.Background()

	record := models.Beneficiary{CNIC: "A", Location: models.LocationInsideGIKI}
	id, err := repo.InsertOne(ctx, &record)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.DeleteByID(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	remaining, err := repo.Select(ctx, models.LocationInsideGIKI)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no rows after delete, got %d", len(remaining))
	}
}

func TestMapWriteErrorRecognisesUniqueViolations(t *testing.T) {
	cases := []error{
		errors.New("constraint failed: UNIQUE constraint failed: beneficiaries.cnic (2067)"),
		errors.New(`ERROR: duplicate key value violates unique constraint "uidx_beneficiaries_cnic" (SQLSTATE 23505)`),
	}
	for _, input := range cases {
		if !errors.Is(mapWriteError(input), store.ErrConflict) {
			t.Fatalf("expected conflict for %q", input)
		}
	}

	generic := errors.New("database is locked")
	if mapped := mapWriteError(generic); mapped != generic {
		t.Fatalf("expected generic error to pass through, got %v", mapped)
	}
}
