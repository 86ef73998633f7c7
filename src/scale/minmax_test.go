package scale

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
)

func trainFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"a", "b", "c", "d"}, series.String, "customer_id"),
		series.New([]float64{0, 10, 20, 40}, series.Float, "tenure"),
		series.New([]float64{20, 70, 45, 120}, series.Float, "monthly_charges"),
	)
}

func TestTransformMapsTrainIntoUnitInterval(t *testing.T) {
	m := NewMinMax("customer_id")
	train := trainFrame()
	if err := m.Fit(train); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	scaled, err := m.Transform(train)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	for _, name := range []string{"tenure", "monthly_charges"} {
		vals := scaled.Col(name).Float()
		lo, hi := vals[0], vals[0]
		for _, v := range vals {
			if v < 0 || v > 1 {
				t.Errorf("%s: scaled value %v outside [0, 1]", name, v)
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if lo != 0 {
			t.Errorf("%s: min scaled = %v, want 0", name, lo)
		}
		if hi != 1 {
			t.Errorf("%s: max scaled = %v, want 1", name, hi)
		}
	}
}

func TestTransformPreservesColumnsAndIDs(t *testing.T) {
	m := NewMinMax("customer_id")
	train := trainFrame()
	scaled, err := m.FitTransform(train)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	wantCols := []string{"customer_id", "tenure", "monthly_charges"}
	if diff := cmp.Diff(wantCols, scaled.Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(train.Col("customer_id").Records(), scaled.Col("customer_id").Records()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformDoesNotRefit(t *testing.T) {
	m := NewMinMax("customer_id")
	if err := m.Fit(trainFrame()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// Validation data exceeding the training range scales past 1 and
	// below 0; the transform must not clamp or re-fit.
	validate := dataframe.New(
		series.New([]string{"x", "y"}, series.String, "customer_id"),
		series.New([]float64{80, -10}, series.Float, "tenure"),
		series.New([]float64{120, 20}, series.Float, "monthly_charges"),
	)
	scaled, err := m.Transform(validate)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	tenure := scaled.Col("tenure").Float()
	if tenure[0] != 2 {
		t.Errorf("tenure[0] = %v, want 2 (80 against train range [0, 40])", tenure[0])
	}
	if tenure[1] != -0.25 {
		t.Errorf("tenure[1] = %v, want -0.25", tenure[1])
	}
}

func TestTransformDegenerateColumn(t *testing.T) {
	m := NewMinMax("")
	train := dataframe.New(
		series.New([]float64{5, 5, 5}, series.Float, "constant"),
		series.New([]float64{1, 2, 3}, series.Float, "varying"),
	)
	scaled, err := m.FitTransform(train)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	for _, v := range scaled.Col("constant").Float() {
		if v != 0 {
			t.Errorf("degenerate column scaled to %v, want 0", v)
		}
	}
}

func TestTransformBeforeFit(t *testing.T) {
	m := NewMinMax("")
	_, err := m.Transform(trainFrame())
	if !errors.Is(err, errNotFitted) {
		t.Fatalf("Transform error = %v, want errNotFitted", err)
	}
}

func TestTransformMissingFittedColumn(t *testing.T) {
	m := NewMinMax("customer_id")
	if err := m.Fit(trainFrame()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	partial := dataframe.New(
		series.New([]float64{1}, series.Float, "tenure"),
	)
	if _, err := m.Transform(partial); err == nil {
		t.Fatal("Transform should fail when a fitted column is missing")
	}
}

func TestFitEmptyTable(t *testing.T) {
	m := NewMinMax("")
	empty := dataframe.New(series.New([]float64{}, series.Float, "tenure"))
	if err := m.Fit(empty); err == nil {
		t.Fatal("Fit should fail on an empty table")
	}
}
