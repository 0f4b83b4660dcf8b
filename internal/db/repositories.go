package db

import "gorm.io/gorm"

type Repositories struct {
	Beneficiaries *BeneficiaryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Beneficiaries: NewBeneficiaryRepository(database),
	}
}
