package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// unknownOperation labels expenses whose operation reference is dangling.
// Sector and operation deletes never cascade, so the reference may point at
// nothing.
const unknownOperation = "Unknown"

// GenerateExpensesCSV renders expenses as a CSV export. Operation names are
// resolved from the given list; dangling references fall back to a label.
func GenerateExpensesCSV(expenses []models.Expense, operations []models.Operation) ([]byte, error) {
	names := make(map[string]string, len(operations))
	for _, op := range operations {
		names[op.ID] = op.Name
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Date", "Description", "Supplier", "Category", "Operation", "Agreed Value", "Invoice Value", "Status", "Due Date"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range expenses {
		operationName := names[expenses[i].OperationID]
		if operationName == "" {
			operationName = unknownOperation
		}
		if expenses[i].IsShared {
			operationName = fmt.Sprintf("%s (+%d shared)", operationName, len(expenses[i].Allocations)-1)
		}

		invoiceValue := ""
		if expenses[i].InvoiceValue != nil {
			invoiceValue = expenses[i].InvoiceValue.StringFixed(2)
		}

		row := []string{
			expenses[i].CreatedAt.Format("2006-01-02"),
			expenses[i].Description,
			expenses[i].Supplier,
			expenses[i].Category,
			operationName,
			expenses[i].AgreedValue.StringFixed(2),
			invoiceValue,
			expenses[i].Status,
			expenses[i].DueDate.Format("2006-01-02"),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}
