package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleGerente   = "gerente"
	RoleEncargado = "encargado"
)

// User representa un usuario del sistema (pertenece a una Branch).
type User struct {
	ID           string
	BranchID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, gerente, encargado
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
