package prepare

import (
	"errors"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
)

func mallFrame(rows ...[]string) dataframe.DataFrame {
	records := [][]string{{"customer_id", "gender", "age", "annual_income", "spending_score"}}
	records = append(records, rows...)
	return dataframe.LoadRecords(records,
		dataframe.DefaultType(series.String),
		dataframe.DetectTypes(false),
	)
}

func TestMallEncodesGender(t *testing.T) {
	df := mallFrame(
		[]string{"1", "Female", "23", "25", "81"},
		[]string{"2", "Male", "35", "40", "17"},
	)
	got, err := Mall(df)
	if err != nil {
		t.Fatalf("Mall: %v", err)
	}

	if hasColumn(got, "gender") {
		t.Error("gender column should be dropped")
	}
	want := []string{"1", "0"}
	if diff := cmp.Diff(want, got.Col("is_female").Records()); diff != "" {
		t.Errorf("is_female mismatch (-want +got):\n%s", diff)
	}
}

func TestMallUnknownGender(t *testing.T) {
	df := mallFrame([]string{"1", "F", "23", "25", "81"})
	_, err := Mall(df)

	var catErr *UnrecognizedCategoryError
	if !errors.As(err, &catErr) {
		t.Fatalf("Mall error = %v, want UnrecognizedCategoryError", err)
	}
}

func TestMallMissingGender(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"customer_id", "age"},
		{"1", "23"},
	}, dataframe.DefaultType(series.String), dataframe.DetectTypes(false))

	_, err := Mall(df)
	var missErr *MissingColumnError
	if !errors.As(err, &missErr) {
		t.Fatalf("Mall error = %v, want MissingColumnError", err)
	}
}
