package repository

import "github.com/jhoicas/salon-stock-api/internal/domain/entity"

// BranchRepository puerto de persistencia para sucursales.
type BranchRepository interface {
	Create(b *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	List() ([]*entity.Branch, error)
}
