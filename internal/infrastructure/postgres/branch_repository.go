package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/salon-stock-api/internal/domain"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo implementación de BranchRepository sobre PostgreSQL (usable con pool o tx).
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador de sucursales. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// Create persiste una sucursal nueva.
func (r *BranchRepo) Create(b *entity.Branch) error {
	query := `
		INSERT INTO branches (id, name, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.Name, b.Address, b.Phone, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por id.
func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	query := `SELECT id, name, address, phone, created_at, updated_at FROM branches WHERE id = $1`
	var b entity.Branch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

// List devuelve todas las sucursales ordenadas por nombre.
func (r *BranchRepo) List() ([]*entity.Branch, error) {
	query := `SELECT id, name, address, phone, created_at, updated_at FROM branches ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var branches []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, &b)
	}
	return branches, rows.Err()
}
