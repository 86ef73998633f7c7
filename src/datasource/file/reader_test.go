package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
)

func TestReadCSVKeepsStrings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telco.csv")
	csv := "customer_id,tenure,total_charges\n" +
		"c1,5,100.5\n" +
		"c2,0, \n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	df, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if df.Nrow() != 2 {
		t.Fatalf("Nrow = %d, want 2", df.Nrow())
	}
	for _, name := range df.Names() {
		if df.Col(name).Type() != series.String {
			t.Errorf("column %q type = %v, want string", name, df.Col(name).Type())
		}
	}
	// The whitespace cell must survive as-is for the encoder to see.
	if v := df.Col("total_charges").Elem(1).String(); v != " " {
		t.Errorf("total_charges[1] = %q, want single space", v)
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("ReadCSV should fail on a missing file")
	}
}

func TestReadXLSXMissingSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-workbook.xlsx")
	if err := os.WriteFile(path, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadXLSX(path, "Sheet1"); err == nil {
		t.Fatal("ReadXLSX should fail on a corrupt workbook")
	}
}

func TestReadCSVHeaderOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grades.csv")
	csv := "student_id,exam1,exam2\n1,98,96\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	df, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if diff := cmp.Diff([]string{"student_id", "exam1", "exam2"}, df.Names()); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}
