// Package xlsx reads and writes Excel workbooks via excelize.
package xlsx

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Handler wraps one workbook path. Sheets read or assigned are cached in
// Sheets until saved.
type Handler struct {
	Path   string
	Sheets map[string][][]string
}

func New(path string) *Handler {
	return &Handler{Path: path, Sheets: make(map[string][][]string)}
}

// ReadSheet loads a single sheet as rows of cells and caches it.
func (h *Handler) ReadSheet(name string) ([][]string, error) {
	f, err := excelize.OpenFile(h.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", h.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	h.Sheets[name] = rows
	return rows, nil
}

// ReadAll loads every sheet in the workbook into the cache.
func (h *Handler) ReadAll() (map[string][][]string, error) {
	f, err := excelize.OpenFile(h.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", h.Path, err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		h.Sheets[name] = rows
	}
	return h.Sheets, nil
}

// SaveSheet writes rows to the named sheet, replacing its contents. The
// workbook is created when missing.
func (h *Handler) SaveSheet(name string, rows [][]string) error {
	h.Sheets[name] = rows
	return h.save(map[string][][]string{name: rows}, false)
}

// SaveAll writes every cached sheet, rebuilding the workbook.
func (h *Handler) SaveAll() error {
	return h.save(h.Sheets, true)
}

func (h *Handler) save(sheets map[string][][]string, rebuild bool) error {
	var f *excelize.File
	if _, err := os.Stat(h.Path); err != nil || rebuild {
		f = excelize.NewFile()
	} else {
		f, err = excelize.OpenFile(h.Path)
		if err != nil {
			return fmt.Errorf("open %s: %w", h.Path, err)
		}
	}
	defer f.Close()

	for name, rows := range sheets {
		// Recreate the sheet so stale rows from a previous save cannot
		// survive underneath shorter data.
		_ = f.DeleteSheet(name)
		idx, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
		f.SetActiveSheet(idx)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return fmt.Errorf("sheet %q row %d: %w", name, i+1, err)
			}
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = v
			}
			if err := f.SetSheetRow(name, cell, &cells); err != nil {
				return fmt.Errorf("sheet %q row %d: %w", name, i+1, err)
			}
		}
	}

	// Drop the default empty sheet when rebuilding with named sheets.
	if rebuild {
		if _, ok := sheets["Sheet1"]; !ok && len(sheets) > 0 {
			_ = f.DeleteSheet("Sheet1")
		}
	}

	if err := f.SaveAs(h.Path); err != nil {
		return fmt.Errorf("save %s: %w", h.Path, err)
	}
	return nil
}
