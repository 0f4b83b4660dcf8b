package services

import (
	"context"
	"fmt"

	"github.com/terraincognita07/rationportal/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BeneficiaryService struct {
	store  BeneficiaryStore
	cnics  *CNICCache
	logger *zap.Logger
}

type ViewQuery struct {
	Location models.Location
	Search   string
	Filter   FilterKind
}

type ListView struct {
	Query      ViewQuery
	Items      []models.Beneficiary
	Stats      Stats
	LoadFailed bool
}

func NewBeneficiaryService(store BeneficiaryStore, cnics *CNICCache, logger *zap.Logger) *BeneficiaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BeneficiaryService{
		store:  store,
		cnics:  cnics,
		logger: logger,
	}
}

func (service *BeneficiaryService) KnownCNICs() *CNICCache {
	return service.cnics
}

// LoadView fetches the tab's list and refreshes the known-CNIC cache side by
// side. Neither waits on the other's result. A failed list fetch yields an
// empty view with LoadFailed set.
func (service *BeneficiaryService) LoadView(ctx context.Context, query ViewQuery) ListView {
	var (
		list    []models.Beneficiary
		listErr error
		group   errgroup.Group
	)
	group.Go(func() error {
		list, listErr = service.store.Select(ctx, query.Location)
		return nil
	})
	group.Go(func() error {
		return service.cnics.Refresh(ctx)
	})
	if err := group.Wait(); err != nil {
		service.logger.Warn("refresh known cnics failed", zap.Error(err))
	}

	view := ListView{Query: query}
	if listErr != nil {
		service.logger.Error("fetch beneficiaries failed",
			zap.String("location", string(query.Location)),
			zap.Error(listErr),
		)
		view.LoadFailed = true
		list = nil
	}

	view.Stats = ComputeStats(list)
	view.Items = ApplyFilters(list, query.Search, query.Filter)
	return view
}

func (service *BeneficiaryService) Find(ctx context.Context, id string) (models.Beneficiary, error) {
	return service.store.FindByID(ctx, id)
}

// ToggleStatus flips pending and done and returns the new status. Callers
// re-fetch the list afterwards; nothing is updated optimistically.
func (service *BeneficiaryService) ToggleStatus(ctx context.Context, id string, current models.Status) (models.Status, error) {
	next := current.Toggled()
	if err := service.store.UpdateByID(ctx, id, models.BeneficiaryChanges{Status: &next}); err != nil {
		return current, fmt.Errorf("toggle status: %w", err)
	}
	return next, nil
}

func (service *BeneficiaryService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}
	if err := service.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete beneficiary: %w", err)
	}
	service.refreshKnownCNICs(ctx)
	return nil
}

func (service *BeneficiaryService) refreshKnownCNICs(ctx context.Context) {
	if err := service.cnics.Refresh(ctx); err != nil {
		service.logger.Warn("refresh known cnics failed", zap.Error(err))
	}
}
