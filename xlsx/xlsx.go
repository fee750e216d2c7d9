// Package xlsx writes comparison reports as Excel workbooks.
//
// Every table of the report is a sheet, in report order. Values are written
// unrounded, number formats only affect their display.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/realvalue"
	"github.com/xuri/excelize/v2"
)

// Number formats by kind of column.
const (
	percentFormat = `0.00`
	moneyFormat   = `#,##0.00`
	rateFormat    = `0.0000`
	indexFormat   = `0.000`
)

// columnWidth is the width of every column, in characters.
const columnWidth = 18

// New returns a workbook with one sheet per table of r.
func New(r *realvalue.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &workbook{f: f, header: header, styles: make(map[string]int)}
	for i, t := range r.Tables() {
		if err := w.sheet(i, t); err != nil {
			f.Close()
			return nil, fmt.Errorf("cannot write sheet %q: %w", t.Name, err)
		}
	}
	if err := w.chart(r.RealValue); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot add the real value chart: %w", err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write writes the workbook of r to w.
func Write(w io.Writer, r *realvalue.Report) error {
	f, err := New(r)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Save writes the workbook of r to the file path.
func Save(path string, r *realvalue.Report) error {
	f, err := New(r)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

type workbook struct {
	f      *excelize.File
	header int
	styles map[string]int // by number format
}

// style returns the style of a number format.
func (w *workbook) style(format string) (int, error) {
	if id, ok := w.styles[format]; ok {
		return id, nil
	}
	id, err := w.f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return 0, err
	}
	w.styles[format] = id
	return id, nil
}

// sheet writes table t as the i-th sheet.
func (w *workbook) sheet(i int, t *realvalue.Table) error {
	f := w.f
	if i == 0 {
		if err := f.SetSheetName(f.GetSheetName(0), t.Name); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(t.Name); err != nil {
		return err
	}

	columns := make([]any, len(t.Columns))
	for j, c := range t.Columns {
		columns[j] = c
	}
	if err := f.SetSheetRow(t.Name, "A1", &columns); err != nil {
		return err
	}
	for j, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, j+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &row); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.Name, "A1", last+"1", w.header); err != nil {
		return err
	}
	if err := f.SetColWidth(t.Name, "A", last, columnWidth); err != nil {
		return err
	}

	for j, c := range t.Columns {
		format := columnFormat(t.Name, c)
		if format == "" || len(t.Rows) == 0 {
			continue
		}
		id, err := w.style(format)
		if err != nil {
			return err
		}
		top, _ := excelize.CoordinatesToCellName(j+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(j+1, len(t.Rows)+1)
		if err := f.SetCellStyle(t.Name, top, bottom, id); err != nil {
			return err
		}
	}

	panes := &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}
	if t.Name == "Real Value" {
		panes = &excelize.Panes{Freeze: true, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight"}
	}
	return f.SetPanes(t.Name, panes)
}

// columnFormat returns the number format of a column, or "" for text.
func columnFormat(table, column string) string {
	switch {
	case table == "Real Value":
		if column == "Name" {
			return ""
		}
		return moneyFormat
	case strings.HasSuffix(column, "%"), strings.HasSuffix(column, "(pp)"):
		return percentFormat
	case strings.Contains(column, "(USD)"), column == "Starting amount":
		return moneyFormat
	case strings.HasPrefix(column, "Rate"):
		return rateFormat
	case column == "CPI A", column == "CPI B":
		return indexFormat
	}
	return ""
}

// chart adds a line chart of the real values below the table.
func (w *workbook) chart(t *realvalue.Table) error {
	if len(t.Rows) == 0 || len(t.Columns) < 2 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return err
	}
	sheet := "'" + t.Name + "'"
	var series []excelize.ChartSeries
	for i := range t.Rows {
		r := i + 2
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$A$%d", sheet, r),
			Categories: fmt.Sprintf("%s!$B$1:$%s$1", sheet, last),
			Values:     fmt.Sprintf("%s!$B$%d:$%s$%d", sheet, r, last, r),
		})
	}
	anchor, err := excelize.CoordinatesToCellName(1, len(t.Rows)+3)
	if err != nil {
		return err
	}
	return w.f.AddChart(t.Name, anchor, &excelize.Chart{
		Type:      excelize.Line,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: "Real value in " + realvalue.Reference}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 960, Height: 480},
	})
}
