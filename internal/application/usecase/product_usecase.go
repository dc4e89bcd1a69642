package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/salon-stock-api/internal/application/dto"
	"github.com/jhoicas/salon-stock-api/internal/domain"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create registra un producto nuevo en el catálogo. SKU único en la cadena.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.productRepo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		SupplierID:  in.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// List devuelve el catálogo paginado.
func (uc *ProductUseCase) List(page dto.PageRequest) ([]*entity.Product, error) {
	page.DefaultPage()
	return uc.productRepo.List(page.Limit, page.Offset)
}

// GetByID devuelve un producto por id.
func (uc *ProductUseCase) GetByID(id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
