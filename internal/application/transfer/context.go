package transfer

// ActingContext identidad explícita del actor de cada operación.
// Se construye desde los claims del JWT en la capa HTTP y se pasa como
// argumento; ningún caso de uso lee estado ambiente.
type ActingContext struct {
	UserID   string
	UserName string
	BranchID string
}
