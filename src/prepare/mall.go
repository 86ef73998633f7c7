package prepare

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var genderFemale = map[string]int{"Female": 1, "Male": 0}

// Mall encodes the mall-customers table: gender becomes an is_female
// indicator and the original column is removed. Everything else passes
// through unchanged.
func Mall(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, err
	}
	if !hasColumn(df, "gender") {
		return dataframe.DataFrame{}, &MissingColumnError{Column: "gender"}
	}

	keep := make([]bool, df.Nrow())
	for i := range keep {
		keep[i] = true
	}
	isFemale, err := mapCategory(df, "gender", genderFemale, keep)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	out := df.Drop("gender").Mutate(series.New(isFemale, series.Int, "is_female"))
	if err := out.Error(); err != nil {
		return dataframe.DataFrame{}, err
	}
	return out, nil
}
