// Package transfer contiene la lógica pura del workflow de préstamos:
// la derivación de estado vive aquí, una sola vez, y nunca se duplica
// en handlers ni en la capa de presentación.
package transfer

import "github.com/jhoicas/salon-stock-api/internal/domain/entity"

// DeriveStatus calcula el estado de un préstamo como función pura de
// {requestStatus, líneas}:
//
//	Denied    si requestStatus = Denied
//	Completed si toda línea tiene ReturnedQuantity == LendQuantity
//	Partial   si alguna línea tiene ReturnedQuantity > 0 y no todas completas
//	Pending   en cualquier otro caso
func DeriveStatus(requestStatus string, lines []entity.TransferLine) string {
	if requestStatus == entity.RequestStatusDenied {
		return entity.TransferStatusDenied
	}
	if len(lines) == 0 {
		return entity.TransferStatusPending
	}
	allComplete := true
	anyReturned := false
	for _, l := range lines {
		if !l.ReturnedQuantity.Equal(l.LendQuantity) {
			allComplete = false
		}
		if l.ReturnedQuantity.IsPositive() {
			anyReturned = true
		}
	}
	switch {
	case allComplete:
		return entity.TransferStatusCompleted
	case anyReturned:
		return entity.TransferStatusPartial
	default:
		return entity.TransferStatusPending
	}
}
