// Package csvkit reads and writes CSV files as gota frames.
package csvkit

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
)

// Handler wraps one CSV file path.
type Handler struct {
	Path string
}

func New(path string) *Handler {
	return &Handler{Path: path}
}

// Read loads the file into a frame, first record as header.
func (h *Handler) Read() (dataframe.DataFrame, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", h.Path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse %s: %w", h.Path, df.Error())
	}
	return df, nil
}

// Write saves the frame to the file, overwriting it.
func (h *Handler) Write(df dataframe.DataFrame) error {
	f, err := os.Create(h.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", h.Path, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("write %s: %w", h.Path, err)
	}
	return nil
}

// Append adds the frame's rows to the file, writing the header only when the
// file is new or empty.
func (h *Handler) Append(df dataframe.DataFrame) error {
	info, err := os.Stat(h.Path)
	writeHeader := err != nil || info.Size() == 0

	f, err := os.OpenFile(h.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", h.Path, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f, dataframe.WriteHeader(writeHeader)); err != nil {
		return fmt.Errorf("append %s: %w", h.Path, err)
	}
	return nil
}
