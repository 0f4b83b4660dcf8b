package db

import (
	"context"
	"errors"

	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/store"
	"gorm.io/gorm"
)

const insertBatchSize = 200

type BeneficiaryRepository struct {
	database *gorm.DB
}

func NewBeneficiaryRepository(database *gorm.DB) *BeneficiaryRepository {
	return &BeneficiaryRepository{database: database}
}

func (repo *BeneficiaryRepository) Select(ctx context.Context, location models.Location) ([]models.Beneficiary, error) {
	records := make([]models.Beneficiary, 0)
	if err := repo.database.WithContext(ctx).
		Where("location = ?", location).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, store.Wrap("select", err)
	}
	return records, nil
}

func (repo *BeneficiaryRepository) SelectCNICs(ctx context.Context) ([]string, error) {
	cnics := make([]string, 0)
	if err := repo.database.WithContext(ctx).
		Model(&models.Beneficiary{}).
		Pluck("cnic", &cnics).Error; err != nil {
		return nil, store.Wrap("select cnic", err)
	}
	return cnics, nil
}

func (repo *BeneficiaryRepository) FindByID(ctx context.Context, id string) (models.Beneficiary, error) {
	record := models.Beneficiary{}
	if err := repo.database.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Beneficiary{}, store.ErrNotFound
		}
		return models.Beneficiary{}, store.Wrap("find", err)
	}
	return record, nil
}

func (repo *BeneficiaryRepository) InsertOne(ctx context.Context, record *models.Beneficiary) (string, error) {
	if err := repo.database.WithContext(ctx).Create(record).Error; err != nil {
		return "", store.Wrap("insert", mapWriteError(err))
	}
	return record.ID, nil
}

func (repo *BeneficiaryRepository) InsertMany(ctx context.Context, records []models.Beneficiary) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	result := repo.database.WithContext(ctx).CreateInBatches(&records, insertBatchSize)
	if result.Error != nil {
		return 0, store.Wrap("insert many", mapWriteError(result.Error))
	}
	return int(result.RowsAffected), nil
}

func (repo *BeneficiaryRepository) UpdateByID(ctx context.Context, id string, changes models.BeneficiaryChanges) error {
	if changes.IsEmpty() {
		return nil
	}
	result := repo.database.WithContext(ctx).
		Model(&models.Beneficiary{}).
		Where("id = ?", id).
		Updates(changes.Columns())
	if result.Error != nil {
		return store.Wrap("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (repo *BeneficiaryRepository) DeleteByID(ctx context.Context, id string) error {
	result := repo.database.WithContext(ctx).Where("id = ?", id).Delete(&models.Beneficiary{})
	if result.Error != nil {
		return store.Wrap("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
