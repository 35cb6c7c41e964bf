package reports

import (
	"fmt"
	"io"

	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/schemas"
	"github.com/xuri/excelize/v2"
)

const pendingDebtsSheet = "PendingDebts"

var pendingDebtsHeadings = []string{
	"Cliente",
	"CodigoProducto",
	"NumDocumento",
	"DescDocumento",
	"FechaEmision",
	"FechaVencimiento",
	"Deuda",
	"Mora",
	"GastosAdm",
	"PagoMinimo",
	"Periodo",
	"Anio",
	"Cuota",
	"MonedaDoc",
}

// NewPendingDebtsWorkbook lays the debts out one per row, in the same shape
// the debt-status endpoint reports them.
func NewPendingDebtsWorkbook(debts []*models.Debt) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", pendingDebtsSheet); err != nil {
		return nil, err
	}

	for i, h := range pendingDebtsHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(pendingDebtsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, debt := range debts {
		shaped := schemas.ShapePendingDebt(debt)
		row := []interface{}{
			debt.Client.Name,
			shaped.CodigoProducto,
			shaped.NumDocumento,
			shaped.DescDocumento,
			shaped.FechaEmision,
			shaped.FechaVencimiento,
			shaped.Deuda,
			shaped.Mora,
			shaped.GastosAdm,
			shaped.PagoMinimo,
			shaped.Periodo,
			shaped.Anio,
			shaped.Cuota,
			shaped.MonedaDoc,
		}
		if err := f.SetSheetRow(pendingDebtsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func WritePendingDebts(debts []*models.Debt, w io.Writer) error {
	f, err := NewPendingDebtsWorkbook(debts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func SavePendingDebts(debts []*models.Debt, filename string) error {
	f, err := NewPendingDebtsWorkbook(debts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}
