// Package scale provides range scaling for feature matrices. The
// transform is fit on the training partition only and then applied
// unchanged to every partition.
package scale

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var errNotFitted = errors.New("scale: Transform called before Fit")

// MinMax maps each feature column through (v - min) / (max - min)
// using the minimum and maximum observed at Fit time. Training data
// therefore lands in [0, 1] exactly; later partitions may fall
// outside that range and the transform is deliberately not re-fit.
type MinMax struct {
	idColumn string
	cols     []string
	min      []float64
	max      []float64
	fitted   bool
}

// NewMinMax returns a scaler that treats idColumn as the row
// identifier: it is carried through Transform untouched and never
// scaled. An empty idColumn means every column is a feature.
func NewMinMax(idColumn string) *MinMax {
	return &MinMax{idColumn: idColumn}
}

// Fit records the per-column minimum and maximum of the training
// features. Column order is captured here and preserved on output.
func (m *MinMax) Fit(train dataframe.DataFrame) error {
	if err := train.Error(); err != nil {
		return err
	}
	if train.Nrow() == 0 {
		return errors.New("scale: cannot fit on an empty table")
	}

	m.cols = m.cols[:0]
	m.min = m.min[:0]
	m.max = m.max[:0]
	for _, name := range train.Names() {
		if name == m.idColumn {
			continue
		}
		vals := train.Col(name).Float()
		lo, hi := vals[0], vals[0]
		for _, v := range vals[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		m.cols = append(m.cols, name)
		m.min = append(m.min, lo)
		m.max = append(m.max, hi)
	}
	m.fitted = true
	return nil
}

// Transform scales every feature column of df by the fitted ranges.
// A column that was constant in the training data (min == max) scales
// to 0 everywhere: there is no range to map, and 0 keeps the output
// inside the training interval. The identifier column, when present,
// leads the output unchanged.
func (m *MinMax) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !m.fitted {
		return dataframe.DataFrame{}, errNotFitted
	}
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, err
	}

	var out []series.Series
	if m.idColumn != "" && hasColumn(df, m.idColumn) {
		out = append(out, series.New(df.Col(m.idColumn).Records(), series.String, m.idColumn))
	}
	for j, name := range m.cols {
		if !hasColumn(df, name) {
			return dataframe.DataFrame{}, fmt.Errorf("scale: fitted column %q missing from input", name)
		}
		vals := df.Col(name).Float()
		scaled := make([]float64, len(vals))
		span := m.max[j] - m.min[j]
		for i, v := range vals {
			if span == 0 {
				scaled[i] = 0
				continue
			}
			scaled[i] = (v - m.min[j]) / span
		}
		out = append(out, series.New(scaled, series.Float, name))
	}

	res := dataframe.New(out...)
	if err := res.Error(); err != nil {
		return dataframe.DataFrame{}, err
	}
	return res, nil
}

// FitTransform fits on df and immediately scales it.
func (m *MinMax) FitTransform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := m.Fit(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	return m.Transform(df)
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
