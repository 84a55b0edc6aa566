// Package export writes filtered BOQ rows to XLSX workbooks.
package export

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/runway/tender-boq/internal/model"
	"github.com/runway/tender-boq/internal/render"
)

// SheetName is the worksheet holding the BOQ rows.
const SheetName = "BOQ"

// Header is the first row of the sheet.
var Header = []string{"#", "Item", "File", "Category", "Type", "Quantity", "Unit", "Brands"}

// Workbook builds a workbook with one row per item. Missing quantities are
// left blank; present quantities, zero included, are numeric cells.
func Workbook(rows []model.NormalizedBOQItem) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range Header {
		header.AddCell().SetString(h)
	}

	for i, it := range rows {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(it.Name)
		row.AddCell().SetString(render.FileLabel(it.FileName))
		row.AddCell().SetString(it.Category)
		row.AddCell().SetString(it.Type)
		qty := row.AddCell()
		if it.Quantity != nil {
			qty.SetFloat(*it.Quantity)
		}
		row.AddCell().SetString(it.Unit)
		row.AddCell().SetString(strings.Join(it.Brands, ", "))
	}
	return f, nil
}

// WriteFile saves the rows to path.
func WriteFile(path string, rows []model.NormalizedBOQItem) error {
	f, err := Workbook(rows)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "xlsx: save %s", path)
}

// Write streams the workbook to w.
func Write(w io.Writer, rows []model.NormalizedBOQItem) error {
	f, err := Workbook(rows)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "xlsx: write")
}
