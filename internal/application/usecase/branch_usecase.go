package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/salon-stock-api/internal/application/dto"
	"github.com/jhoicas/salon-stock-api/internal/domain"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

// BranchUseCase casos de uso de sucursales.
type BranchUseCase struct {
	branchRepo repository.BranchRepository
	stockRepo  repository.BranchProductRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(branchRepo repository.BranchRepository, stockRepo repository.BranchProductRepository) *BranchUseCase {
	return &BranchUseCase{branchRepo: branchRepo, stockRepo: stockRepo}
}

// Create registra una sucursal nueva.
func (uc *BranchUseCase) Create(in dto.CreateBranchRequest) (*entity.Branch, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	b := &entity.Branch{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.branchRepo.Create(b); err != nil {
		return nil, err
	}
	return b, nil
}

// List devuelve todas las sucursales.
func (uc *BranchUseCase) List() ([]*entity.Branch, error) {
	return uc.branchRepo.List()
}

// GetByID devuelve una sucursal por id.
func (uc *BranchUseCase) GetByID(id string) (*entity.Branch, error) {
	b, err := uc.branchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// Stock devuelve el stock y precio por producto de una sucursal.
func (uc *BranchUseCase) Stock(branchID string) ([]*entity.BranchProduct, error) {
	if _, err := uc.GetByID(branchID); err != nil {
		return nil, err
	}
	return uc.stockRepo.ListByBranch(branchID)
}
