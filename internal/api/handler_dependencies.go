package api

import "github.com/terraincognita07/rationportal/internal/services"

// withDependencies wires one known-CNIC cache shared by the list controller
// and the importer.
func (handler *Handler) withDependencies(store services.BeneficiaryStore, mode services.ImportMode) *Handler {
	cnics := services.NewCNICCache(store)
	handler.beneficiaries = services.NewBeneficiaryService(store, cnics, handler.logger.Named("beneficiaries"))
	handler.importer = services.NewImporter(store, cnics, mode, handler.logger.Named("import"))
	return handler
}
