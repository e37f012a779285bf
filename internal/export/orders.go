// Package export renders orders as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	SheetName   = "Orders"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout  = "2006-01-02 15:04:05"
)

var headers = []string{
	"ID", "Created", "Status", "Customer", "Phone", "Wilaya", "Commune", "Address", "Items", "Total",
}

// WriteOrders writes one row per order. names maps product ids to display
// names; unknown ids are shown as "#id".
func WriteOrders(w io.Writer, orders []models.Order, names map[uint]string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range headers {
		header.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(o.ID))
		row.AddCell().SetString(o.CreatedAt.UTC().Format(timeLayout))
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(o.CustomerName)
		row.AddCell().SetString(o.Phone)
		row.AddCell().SetString(o.Wilaya)
		commune := ""
		if o.Commune != nil {
			commune = *o.Commune
		}
		row.AddCell().SetString(commune)
		row.AddCell().SetString(o.Address)
		row.AddCell().SetString(itemSummary(o.Items, names))
		total, _ := o.TotalPrice.Float64()
		row.AddCell().SetFloat(total)
	}

	return file.Write(w)
}

func itemSummary(items []models.OrderItem, names map[uint]string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		name := names[it.ProductID]
		if name == "" {
			name = fmt.Sprintf("#%d", it.ProductID)
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, it.Quantity))
	}
	return strings.Join(parts, ", ")
}
