package pharmacy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CatalogService manages the clinic's drug master data: drugs, categories,
// units and factory partnerships.
type CatalogService struct {
	drugRepo     pharmacy.DrugRepository
	categoryRepo pharmacy.DrugCategoryRepository
	unitRepo     pharmacy.UnitRepository
	factoryRepo  pharmacy.DrugFactoryRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	drugRepo pharmacy.DrugRepository,
	categoryRepo pharmacy.DrugCategoryRepository,
	unitRepo pharmacy.UnitRepository,
	factoryRepo pharmacy.DrugFactoryRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		drugRepo:     drugRepo,
		categoryRepo: categoryRepo,
		unitRepo:     unitRepo,
		factoryRepo:  factoryRepo,
		logger:       logger,
	}
}

// CreateDrug adds a drug to the catalog with the next OBT number
func (s *CatalogService) CreateDrug(ctx context.Context, clinicID uuid.UUID, req CreateDrugRequest) (*DrugResponse, error) {
	if _, err := s.categoryRepo.FindByIDForClinic(ctx, clinicID, req.CategoryID); err != nil {
		return nil, err
	}
	if _, err := s.unitRepo.FindByIDForClinic(ctx, clinicID, req.UnitID); err != nil {
		return nil, err
	}
	partnered, err := s.factoryRepo.IsPartnered(ctx, clinicID, req.FactoryID)
	if err != nil {
		return nil, err
	}
	if !partnered {
		return nil, shared.NewDomainError("FACTORY_NOT_PARTNERED", "Clinic has no partnership with this factory")
	}

	sequence, err := s.drugRepo.NextNumberSequence(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	drug, err := pharmacy.NewDrug(
		clinicID,
		pharmacy.FormatDrugNumber(sequence),
		req.Name,
		req.GenericName,
		req.CategoryID,
		req.FactoryID,
		req.UnitID,
		req.PurchasePrice,
		req.SellingPrice,
	)
	if err != nil {
		return nil, err
	}
	drug.Composition = req.Composition
	drug.Dose = req.Dose
	drug.Shelve = req.Shelve

	if err := s.drugRepo.Save(ctx, drug); err != nil {
		return nil, err
	}

	s.logger.Info("Drug created",
		zap.String("clinic_id", clinicID.String()),
		zap.String("number", drug.Number),
		zap.String("name", drug.Name))

	response := ToDrugResponse(drug)
	return &response, nil
}

// GetDrug returns a drug of the clinic
func (s *CatalogService) GetDrug(ctx context.Context, clinicID, drugID uuid.UUID) (*DrugResponse, error) {
	drug, err := s.drugRepo.FindByIDForClinic(ctx, clinicID, drugID)
	if err != nil {
		return nil, err
	}
	response := ToDrugResponse(drug)
	return &response, nil
}

// GetDrugByNumber returns a drug by its catalog number
func (s *CatalogService) GetDrugByNumber(ctx context.Context, clinicID uuid.UUID, number string) (*DrugResponse, error) {
	drug, err := s.drugRepo.FindByNumber(ctx, clinicID, number)
	if err != nil {
		return nil, err
	}
	response := ToDrugResponse(drug)
	return &response, nil
}

// ListDrugs returns the catalog with pagination
func (s *CatalogService) ListDrugs(ctx context.Context, clinicID uuid.UUID, filter DrugListFilter) (shared.Paginated[DrugResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}

	drugs, err := s.drugRepo.FindAllForClinic(ctx, clinicID, domainFilter)
	if err != nil {
		return shared.Paginated[DrugResponse]{}, err
	}
	total, err := s.drugRepo.CountForClinic(ctx, clinicID, domainFilter)
	if err != nil {
		return shared.Paginated[DrugResponse]{}, err
	}

	return shared.NewPaginated(ToDrugResponses(drugs), total, domainFilter.Page, domainFilter.PageSize), nil
}

// UpdateDrug changes a drug's catalog fields and prices
func (s *CatalogService) UpdateDrug(ctx context.Context, clinicID, drugID uuid.UUID, req UpdateDrugRequest) (*DrugResponse, error) {
	drug, err := s.drugRepo.FindByIDForClinic(ctx, clinicID, drugID)
	if err != nil {
		return nil, err
	}

	if err := drug.UpdateDetails(req.Name, req.GenericName, req.Composition, req.Dose, req.Shelve, req.CategoryID, req.FactoryID, req.UnitID); err != nil {
		return nil, err
	}
	if err := drug.UpdatePrices(req.PurchasePrice, req.SellingPrice); err != nil {
		return nil, err
	}
	if err := s.drugRepo.Save(ctx, drug); err != nil {
		return nil, err
	}

	response := ToDrugResponse(drug)
	return &response, nil
}

// DeleteDrug removes a drug from the catalog. Drugs with stock on hand
// cannot be deleted.
func (s *CatalogService) DeleteDrug(ctx context.Context, clinicID, drugID uuid.UUID) error {
	drug, err := s.drugRepo.FindByIDForClinic(ctx, clinicID, drugID)
	if err != nil {
		return err
	}
	if drug.TotalStock > 0 {
		return shared.NewDomainError("DRUG_HAS_STOCK", "Cannot delete a drug that still has stock")
	}
	return s.drugRepo.DeleteForClinic(ctx, clinicID, drugID)
}

// CreateCategory adds a drug category with the next KTO number
func (s *CatalogService) CreateCategory(ctx context.Context, clinicID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	sequence, err := s.categoryRepo.NextNumberSequence(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	category, err := pharmacy.NewDrugCategory(clinicID, pharmacy.FormatCategoryNumber(sequence), req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return &CategoryResponse{
		ID:        category.ID,
		Number:    category.Number,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}, nil
}

// ListCategories returns the clinic's drug categories
func (s *CatalogService) ListCategories(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (shared.Paginated[CategoryResponse], error) {
	categories, err := s.categoryRepo.FindAllForClinic(ctx, clinicID, filter)
	if err != nil {
		return shared.Paginated[CategoryResponse]{}, err
	}
	total, err := s.categoryRepo.CountForClinic(ctx, clinicID, filter)
	if err != nil {
		return shared.Paginated[CategoryResponse]{}, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = CategoryResponse{
			ID:        category.ID,
			Number:    category.Number,
			Name:      category.Name,
			CreatedAt: category.CreatedAt,
		}
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// RenameCategory changes a category's name
func (s *CatalogService) RenameCategory(ctx context.Context, clinicID, categoryID uuid.UUID, name string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForClinic(ctx, clinicID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := category.Rename(name); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return &CategoryResponse{
		ID:        category.ID,
		Number:    category.Number,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}, nil
}

// DeleteCategory removes a drug category
func (s *CatalogService) DeleteCategory(ctx context.Context, clinicID, categoryID uuid.UUID) error {
	return s.categoryRepo.DeleteForClinic(ctx, clinicID, categoryID)
}

// CreateUnit adds a dispensing unit
func (s *CatalogService) CreateUnit(ctx context.Context, clinicID uuid.UUID, req CreateUnitRequest) (*UnitResponse, error) {
	unit, err := pharmacy.NewUnit(clinicID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	return &UnitResponse{ID: unit.ID, Name: unit.Name, CreatedAt: unit.CreatedAt}, nil
}

// ListUnits returns the clinic's dispensing units
func (s *CatalogService) ListUnits(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]UnitResponse, error) {
	units, err := s.unitRepo.FindAllForClinic(ctx, clinicID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]UnitResponse, len(units))
	for i, unit := range units {
		responses[i] = UnitResponse{ID: unit.ID, Name: unit.Name, CreatedAt: unit.CreatedAt}
	}
	return responses, nil
}

// DeleteUnit removes a dispensing unit
func (s *CatalogService) DeleteUnit(ctx context.Context, clinicID, unitID uuid.UUID) error {
	return s.unitRepo.DeleteForClinic(ctx, clinicID, unitID)
}

// PartnerFactory partners the clinic with a factory, creating the shared
// factory record when it does not exist yet. Factories are shared master
// data across clinics.
func (s *CatalogService) PartnerFactory(ctx context.Context, clinicID uuid.UUID, req CreateFactoryRequest) (*FactoryResponse, error) {
	factory, err := s.factoryRepo.FindByName(ctx, req.Name)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		factory, err = pharmacy.NewDrugFactory(req.Name, req.Email, req.Phone)
		if err != nil {
			return nil, err
		}
		if err := s.factoryRepo.Save(ctx, factory); err != nil {
			return nil, err
		}
	}

	if err := s.factoryRepo.AttachClinic(ctx, clinicID, factory.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Factory partnered",
		zap.String("clinic_id", clinicID.String()),
		zap.String("factory", factory.Name))

	return &FactoryResponse{
		ID:        factory.ID,
		Name:      factory.Name,
		Email:     factory.Email,
		Phone:     factory.Phone,
		CreatedAt: factory.CreatedAt,
	}, nil
}

// ListFactories returns the factories partnered with the clinic
func (s *CatalogService) ListFactories(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (shared.Paginated[FactoryResponse], error) {
	factories, err := s.factoryRepo.FindPartneredForClinic(ctx, clinicID, filter)
	if err != nil {
		return shared.Paginated[FactoryResponse]{}, err
	}
	total, err := s.factoryRepo.CountPartneredForClinic(ctx, clinicID, filter)
	if err != nil {
		return shared.Paginated[FactoryResponse]{}, err
	}

	responses := make([]FactoryResponse, len(factories))
	for i, factory := range factories {
		responses[i] = FactoryResponse{
			ID:        factory.ID,
			Name:      factory.Name,
			Email:     factory.Email,
			Phone:     factory.Phone,
			CreatedAt: factory.CreatedAt,
		}
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// UnpartnerFactory removes the clinic's partnership with a factory.
// The shared factory record stays.
func (s *CatalogService) UnpartnerFactory(ctx context.Context, clinicID, factoryID uuid.UUID) error {
	return s.factoryRepo.DetachClinic(ctx, clinicID, factoryID)
}
