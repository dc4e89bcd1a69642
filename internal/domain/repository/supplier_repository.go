package repository

import "github.com/jhoicas/salon-stock-api/internal/domain/entity"

// SupplierRepository puerto de persistencia para el directorio de proveedores.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List() ([]*entity.Supplier, error)
}
