package main

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"

	"github.com/KwameTaylor/clustering-exercises/src/prepare"
)

func TestTargetTableKeepsIdentifier(t *testing.T) {
	x := dataframe.New(
		series.New([]string{"c1", "c2", "c3"}, series.String, prepare.IDColumn),
		series.New([]float64{0.1, 0.5, 0.9}, series.Float, "tenure"),
	)
	y := series.New([]int{0, 1, 0}, series.Int, "churn")

	got := targetTable(x, y)
	if err := got.Error(); err != nil {
		t.Fatalf("targetTable: %v", err)
	}

	if diff := cmp.Diff([]string{prepare.IDColumn, "churn"}, got.Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(x.Col(prepare.IDColumn).Records(), got.Col(prepare.IDColumn).Records()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0", "1", "0"}, got.Col("churn").Records()); diff != "" {
		t.Errorf("target mismatch (-want +got):\n%s", diff)
	}
}
