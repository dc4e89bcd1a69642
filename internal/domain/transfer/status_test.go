package transfer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
)

func line(lend, returned int64) entity.TransferLine {
	return entity.TransferLine{
		LendQuantity:     decimal.NewFromInt(lend),
		ReturnedQuantity: decimal.NewFromInt(returned),
	}
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name          string
		requestStatus string
		lines         []entity.TransferLine
		want          string
	}{
		{
			name:          "sin devoluciones y solicitud pendiente",
			requestStatus: entity.RequestStatusPending,
			lines:         []entity.TransferLine{line(10, 0), line(5, 0)},
			want:          entity.TransferStatusPending,
		},
		{
			name:          "sin devoluciones y solicitud aprobada sigue Pending",
			requestStatus: entity.RequestStatusApproved,
			lines:         []entity.TransferLine{line(10, 0)},
			want:          entity.TransferStatusPending,
		},
		{
			name:          "devolución parcial en una línea",
			requestStatus: entity.RequestStatusApproved,
			lines:         []entity.TransferLine{line(10, 4), line(5, 0)},
			want:          entity.TransferStatusPartial,
		},
		{
			name:          "una línea completa y otra pendiente sigue Partial",
			requestStatus: entity.RequestStatusApproved,
			lines:         []entity.TransferLine{line(10, 10), line(5, 0)},
			want:          entity.TransferStatusPartial,
		},
		{
			name:          "todas las líneas devueltas por completo",
			requestStatus: entity.RequestStatusApproved,
			lines:         []entity.TransferLine{line(10, 10), line(5, 5)},
			want:          entity.TransferStatusCompleted,
		},
		{
			name:          "denegado fuerza Denied aunque haya devoluciones",
			requestStatus: entity.RequestStatusDenied,
			lines:         []entity.TransferLine{line(10, 10)},
			want:          entity.TransferStatusDenied,
		},
		{
			name:          "sin líneas queda Pending",
			requestStatus: entity.RequestStatusPending,
			lines:         nil,
			want:          entity.TransferStatusPending,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.requestStatus, tc.lines))
		})
	}
}
