package entity

import "time"

// Supplier representa un proveedor del directorio de la cadena.
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
