// Package dataframe profiles and cleans tabular data on top of gota.
package dataframe

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ColumnProfile summarizes one column of a frame.
type ColumnProfile struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Distinct int     `json:"distinct"`
	Mean     float64 `json:"mean,omitempty"`
	StdDev   float64 `json:"std_dev,omitempty"`
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
}

// Read parses CSV data into a frame, treating the first record as the header.
func Read(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", df.Error())
	}
	return df, nil
}

// Profile computes a per-column summary. Statistical fields stay zero for
// non-numeric columns.
func Profile(df dataframe.DataFrame) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, df.Ncol())
	for _, name := range df.Names() {
		col := df.Col(name)
		p := ColumnProfile{
			Name:  name,
			Type:  string(col.Type()),
			Count: col.Len(),
		}
		for _, nan := range col.IsNaN() {
			if nan {
				p.Missing++
			}
		}
		distinct := make(map[string]struct{}, col.Len())
		for _, rec := range col.Records() {
			distinct[rec] = struct{}{}
		}
		p.Distinct = len(distinct)

		if col.Type() == series.Int || col.Type() == series.Float {
			p.Mean, p.StdDev, p.Min, p.Max = describe(col.Float())
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// describe computes mean, sample standard deviation, min, and max over the
// non-missing values, the way pandas describe() does.
func describe(values []float64) (mean, std, min, max float64) {
	var kept []float64
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return 0, 0, 0, 0
	}

	min, max = kept[0], kept[0]
	var sum float64
	for _, v := range kept {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean = sum / float64(len(kept))

	if len(kept) > 1 {
		var ss float64
		for _, v := range kept {
			ss += (v - mean) * (v - mean)
		}
		std = math.Sqrt(ss / float64(len(kept)-1))
	}
	return mean, std, min, max
}

// Cleaner applies destructive cleaning steps to a frame.
type Cleaner struct {
	df dataframe.DataFrame
}

func NewCleaner(df dataframe.DataFrame) *Cleaner {
	return &Cleaner{df: df}
}

// Frame returns the current state of the cleaned frame.
func (c *Cleaner) Frame() dataframe.DataFrame {
	return c.df
}

// DropDuplicates removes rows whose full record already occurred.
func (c *Cleaner) DropDuplicates() {
	records := c.df.Records()
	if len(records) <= 1 {
		return
	}
	seen := make(map[string]struct{}, len(records))
	keep := make([]int, 0, c.df.Nrow())
	for i, rec := range records[1:] {
		key := strings.Join(rec, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	c.df = c.df.Subset(keep)
}

// DropMissing removes rows containing any missing value.
func (c *Cleaner) DropMissing() {
	bad := make([]bool, c.df.Nrow())
	for _, name := range c.df.Names() {
		for i, nan := range c.df.Col(name).IsNaN() {
			if nan {
				bad[i] = true
			}
		}
	}
	keep := make([]int, 0, c.df.Nrow())
	for i, b := range bad {
		if !b {
			keep = append(keep, i)
		}
	}
	c.df = c.df.Subset(keep)
}

// DropOutliers removes rows whose value in column lies more than threshold
// standard deviations from the column mean.
func (c *Cleaner) DropOutliers(column string, threshold float64) error {
	col := c.df.Col(column)
	if col.Err != nil {
		return fmt.Errorf("column %q: %w", column, col.Err)
	}
	if col.Type() != series.Int && col.Type() != series.Float {
		return fmt.Errorf("column %q is not numeric", column)
	}
	mean, std, _, _ := describe(col.Float())
	keep := make([]int, 0, c.df.Nrow())
	for i, v := range col.Float() {
		if math.IsNaN(v) {
			keep = append(keep, i)
			continue
		}
		if std == 0 || math.Abs(v-mean)/std < threshold {
			keep = append(keep, i)
		}
	}
	c.df = c.df.Subset(keep)
	return nil
}

// RemoveColumns drops the named columns.
func (c *Cleaner) RemoveColumns(columns ...string) error {
	for _, name := range columns {
		if c.df.Col(name).Err != nil {
			return fmt.Errorf("column %q not in frame", name)
		}
	}
	c.df = c.df.Drop(columns)
	return nil
}

// RenameColumn renames a single column.
func (c *Cleaner) RenameColumn(oldName, newName string) error {
	if c.df.Col(oldName).Err != nil {
		return fmt.Errorf("column %q not in frame", oldName)
	}
	c.df = c.df.Rename(newName, oldName)
	return nil
}

// ConvertType re-types a column, e.g. to series.Int or series.Float.
func (c *Cleaner) ConvertType(column string, t series.Type) error {
	col := c.df.Col(column)
	if col.Err != nil {
		return fmt.Errorf("column %q: %w", column, col.Err)
	}
	converted := series.New(col.Records(), t, column)
	if converted.Err != nil {
		return fmt.Errorf("convert %q to %s: %w", column, t, converted.Err)
	}
	c.df = c.df.Mutate(converted)
	return nil
}
