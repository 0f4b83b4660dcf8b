package services

import (
	"context"

	"github.com/terraincognita07/rationportal/internal/models"
)

// BeneficiaryStore is the record store every backend implements: the GORM
// repository and the PostgREST client.
type BeneficiaryStore interface {
	Select(ctx context.Context, location models.Location) ([]models.Beneficiary, error)
	SelectCNICs(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id string) (models.Beneficiary, error)
	InsertOne(ctx context.Context, record *models.Beneficiary) (string, error)
	InsertMany(ctx context.Context, records []models.Beneficiary) (int, error)
	UpdateByID(ctx context.Context, id string, changes models.BeneficiaryChanges) error
	DeleteByID(ctx context.Context, id string) error
}

type CNICSource interface {
	SelectCNICs(ctx context.Context) ([]string, error)
}

type ImportWriter interface {
	InsertOne(ctx context.Context, record *models.Beneficiary) (string, error)
	InsertMany(ctx context.Context, records []models.Beneficiary) (int, error)
}
