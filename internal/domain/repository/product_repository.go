package repository

import "github.com/jhoicas/salon-stock-api/internal/domain/entity"

// ProductRepository puerto de persistencia para el catálogo de productos.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
