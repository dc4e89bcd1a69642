package entity

import "time"

// Product representa un producto del catálogo de la cadena (compartido entre sucursales).
// El precio y la cantidad disponible viven por sucursal en BranchProduct.
type Product struct {
	ID          string
	SKU         string // código único en toda la cadena
	Name        string
	Description string
	Category    string // tintura, shampoo, herramientas, etc.
	SupplierID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
