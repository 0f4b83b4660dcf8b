package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/store"
)

var errStoreDown = errors.New("store unavailable")

// memoryStore is an in-process BeneficiaryStore with a unique cnic
// constraint. Errors can be injected per operation.
type memoryStore struct {
	mu      sync.Mutex
	records []models.Beneficiary
	nextID  int
	clock   time.Time

	selectErr     error
	cnicsErr      error
	insertManyErr error
	insertOneErr  map[string]error
	updates       []models.BeneficiaryChanges
	insertCalls   int
}

func newMemoryStore(seed ...models.Beneficiary) *memoryStore {
	memory := &memoryStore{clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	for _, record := range seed {
		if _, err := memory.InsertOne(context.Background(), &record); err != nil {
			panic(err)
		}
	}
	return memory
}

func (memory *memoryStore) Select(_ context.Context, location models.Location) ([]models.Beneficiary, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	if memory.selectErr != nil {
		return nil, store.Wrap("select", memory.selectErr)
	}
	result := make([]models.Beneficiary, 0, len(memory.records))
	for index := len(memory.records) - 1; index >= 0; index-- {
		if memory.records[index].Location == location {
			result = append(result, memory.records[index])
		}
	}
	return result, nil
}

func (memory *memoryStore) SelectCNICs(context.Context) ([]string, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	if memory.cnicsErr != nil {
		return nil, store.Wrap("select cnics", memory.cnicsErr)
	}
	cnics := make([]string, 0, len(memory.records))
	for _, record := range memory.records {
		cnics = append(cnics, record.CNIC)
	}
	return cnics, nil
}

func (memory *memoryStore) FindByID(_ context.Context, id string) (models.Beneficiary, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	for _, record := range memory.records {
		if record.ID == id {
			return record, nil
		}
	}
	return models.Beneficiary{}, store.Wrap("find", store.ErrNotFound)
}

func (memory *memoryStore) InsertOne(_ context.Context, record *models.Beneficiary) (string, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.insertCalls++
	if err, ok := memory.insertOneErr[record.CNIC]; ok {
		return "", store.Wrap("insert", err)
	}
	return memory.insertLocked(*record)
}

func (memory *memoryStore) InsertMany(_ context.Context, records []models.Beneficiary) (int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	if memory.insertManyErr != nil {
		return 0, store.Wrap("insert many", memory.insertManyErr)
	}
	for _, record := range records {
		if memory.hasCNICLocked(record.CNIC) {
			return 0, store.Wrap("insert many", store.ErrConflict)
		}
	}
	for _, record := range records {
		if _, err := memory.insertLocked(record); err != nil {
			return 0, err
		}
	}
	return len(records), nil
}

func (memory *memoryStore) UpdateByID(_ context.Context, id string, changes models.BeneficiaryChanges) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.updates = append(memory.updates, changes)
	for index := range memory.records {
		if memory.records[index].ID != id {
			continue
		}
		if changes.Details != nil {
			memory.records[index].Name = changes.Details.Name
			memory.records[index].Phone = changes.Details.Phone
			memory.records[index].Designation = changes.Details.Designation
			memory.records[index].ZakaatEligible = changes.Details.ZakaatEligible
		}
		if changes.Status != nil {
			memory.records[index].Status = *changes.Status
		}
		return nil
	}
	return store.Wrap("update", store.ErrNotFound)
}

func (memory *memoryStore) DeleteByID(_ context.Context, id string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	for index := range memory.records {
		if memory.records[index].ID == id {
			memory.records = append(memory.records[:index], memory.records[index+1:]...)
			return nil
		}
	}
	return store.Wrap("delete", store.ErrNotFound)
}

func (memory *memoryStore) insertLocked(record models.Beneficiary) (string, error) {
	if memory.hasCNICLocked(record.CNIC) {
		return "", store.Wrap("insert", store.ErrConflict)
	}
	memory.nextID++
	record.ID = "id-" + strconv.Itoa(memory.nextID)
	if record.Status == "" {
		record.Status = models.StatusPending
	}
	memory.clock = memory.clock.Add(time.Minute)
	record.CreatedAt = memory.clock
	memory.records = append(memory.records, record)
	return record.ID, nil
}

func (memory *memoryStore) hasCNICLocked(cnic string) bool {
	for _, existing := range memory.records {
		if existing.CNIC == cnic {
			return true
		}
	}
	return false
}

func (memory *memoryStore) count() int {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	return len(memory.records)
}

func (memory *memoryStore) cnicSet() map[string]bool {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	set := make(map[string]bool, len(memory.records))
	for _, record := range memory.records {
		set[record.CNIC] = true
	}
	return set
}

func newServiceForTest(memory *memoryStore) *BeneficiaryService {
	return NewBeneficiaryService(memory, NewCNICCache(memory), nil)
}

func inside(cnic string) models.Beneficiary {
	return models.Beneficiary{CNIC: cnic, Location: models.LocationInsideGIKI}
}

func outside(cnic string) models.Beneficiary {
	return models.Beneficiary{CNIC: cnic, Location: models.LocationOutsideGIKI}
}
