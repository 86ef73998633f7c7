package prepare

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Grades wrangles the student-grades table: the student_id column is
// dropped, blank or whitespace-only cells count as missing, rows with
// any missing cell are removed, and every remaining value must be an
// integer. Returns the wrangled table and the number of rows dropped.
func Grades(df dataframe.DataFrame) (dataframe.DataFrame, int, error) {
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	if !hasColumn(df, "student_id") {
		return dataframe.DataFrame{}, 0, &MissingColumnError{Column: "student_id"}
	}
	df = df.Drop("student_id")

	names := df.Names()
	nrow := df.Nrow()
	cols := make([][]string, len(names))
	for j, name := range names {
		cols[j] = df.Col(name).Records()
	}

	keep := make([]bool, nrow)
	dropped := 0
	for i := 0; i < nrow; i++ {
		keep[i] = true
		for j := range cols {
			if strings.TrimSpace(cols[j][i]) == "" {
				keep[i] = false
				dropped++
				break
			}
		}
	}

	out := make([]series.Series, len(names))
	for j, name := range names {
		vals := make([]int, 0, nrow-dropped)
		for i := 0; i < nrow; i++ {
			if !keep[i] {
				continue
			}
			v, err := strconv.Atoi(strings.TrimSpace(cols[j][i]))
			if err != nil {
				return dataframe.DataFrame{}, 0, fmt.Errorf("prepare: grade column %q row %d: %w", name, i, err)
			}
			vals = append(vals, v)
		}
		out[j] = series.New(vals, series.Int, name)
	}

	res := dataframe.New(out...)
	if err := res.Error(); err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	return res, dropped, nil
}
