package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/salon-stock-api/internal/application/dto"
	"github.com/jhoicas/salon-stock-api/internal/domain"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

// SupplierUseCase casos de uso del directorio de proveedores.
type SupplierUseCase struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(supplierRepo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{supplierRepo: supplierRepo}
}

// Create registra un proveedor nuevo.
func (uc *SupplierUseCase) Create(in dto.CreateSupplierRequest) (*entity.Supplier, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Contact:   in.Contact,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// List devuelve todos los proveedores.
func (uc *SupplierUseCase) List() ([]*entity.Supplier, error) {
	return uc.supplierRepo.List()
}

// GetByID devuelve un proveedor por id.
func (uc *SupplierUseCase) GetByID(id string) (*entity.Supplier, error) {
	s, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}
