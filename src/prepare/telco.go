package prepare

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"
)

// IDColumn is the row identifier carried through every stage. It is
// never a feature.
const IDColumn = "customer_id"

// Column names of the encoded telco table, in output order.
// Consumers that scale feature matrices rely on this order.
var TelcoColumns = []string{
	IDColumn,
	"contract_type", "phone", "internet_type", "senior", "partner",
	"depend", "tenure", "monthly_charges", "total_charges", "num_add_ons",
	"is_male", "tenure_yrs", "churn",
}

// Category encodings. Tables are named rather than inlined so the
// external codes have exactly one place to drift from.
var (
	yesNo = map[string]int{"Yes": 1, "No": 0}

	// Add-on columns carry a third state for customers without
	// internet service, which counts the same as not subscribing.
	addOn = map[string]int{"Yes": 1, "No": 0, "No internet service": 0}

	genderMale = map[string]int{"Male": 1, "Female": 0}

	// contract_type_id comes from the source DB 1-based:
	// 1 month-to-month, 2 one year, 3 two year. Re-based to 0.
	contractCode = map[string]int{"1": 0, "2": 1, "3": 2}

	// internet_service_type_id comes 1-based: 1 DSL, 2 fiber optic,
	// 3 none. "None" becomes 0 so the code doubles as a has-internet
	// indicator.
	internetCode = map[string]int{"3": 0, "1": 1, "2": 2}
)

// addOnColumns are collapsed into the single num_add_ons count.
var addOnColumns = []string{
	"online_security", "online_backup", "device_protection",
	"tech_support", "streaming_tv", "streaming_movies",
}

// telcoRawColumns lists every column Encode expects on the raw table.
var telcoRawColumns = []string{
	IDColumn, "gender", "senior_citizen", "partner", "dependents",
	"tenure", "phone_service", "online_security", "online_backup",
	"device_protection", "tech_support", "streaming_tv",
	"streaming_movies", "contract_type_id", "internet_service_type_id",
	"monthly_charges", "total_charges", "churn",
}

// TelcoEncoder turns the raw churn table into the numeric table the
// modeling stages consume.
type TelcoEncoder struct {
	log *zap.Logger
}

func NewTelcoEncoder(log *zap.Logger) (*TelcoEncoder, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &TelcoEncoder{log: log.Named("telco-encoder")}, nil
}

// Encode maps every categorical column to small integers, collapses
// the six add-on columns into num_add_ons, re-bases the plan-type
// codes, derives tenure_yrs, and drops rows whose total_charges does
// not parse (customers with zero tenure). It returns the encoded
// table and the number of rows dropped.
func (e *TelcoEncoder) Encode(df dataframe.DataFrame) (dataframe.DataFrame, int, error) {
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, 0, fmt.Errorf("raw telco table: %w", err)
	}
	for _, col := range telcoRawColumns {
		if !hasColumn(df, col) {
			return dataframe.DataFrame{}, 0, &MissingColumnError{Column: col}
		}
	}

	nrow := df.Nrow()

	// Rows whose total_charges is blank or otherwise unparsable are
	// excluded entirely. These are zero-tenure customers; imputing a
	// charge for them would be fiction.
	totalRaw := df.Col("total_charges").Records()
	keep := make([]bool, nrow)
	totalCharges := make([]float64, 0, nrow)
	dropped := 0
	for i, s := range totalRaw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			dropped++
			continue
		}
		keep[i] = true
		totalCharges = append(totalCharges, v)
	}

	ids := keepStrings(df.Col(IDColumn).Records(), keep)

	contract, err := mapCategory(df, "contract_type_id", contractCode, keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	internet, err := mapCategory(df, "internet_service_type_id", internetCode, keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	phone, err := mapCategory(df, "phone_service", yesNo, keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	partner, err := mapCategory(df, "partner", yesNo, keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	depend, err := mapCategory(df, "dependents", yesNo, keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	churn, err := mapCategory(df, "churn", yesNo, keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	isMale, err := mapCategory(df, "gender", genderMale, keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}

	numAddOns := make([]int, len(ids))
	for _, col := range addOnColumns {
		vals, err := mapCategory(df, col, addOn, keep)
		if err != nil {
			return dataframe.DataFrame{}, 0, err
		}
		for i, v := range vals {
			numAddOns[i] += v
		}
	}

	senior, err := intColumn(df, "senior_citizen", keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	tenure, err := intColumn(df, "tenure", keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}
	monthly, err := floatColumn(df, "monthly_charges", keep)
	if err != nil {
		return dataframe.DataFrame{}, 0, err
	}

	tenureYrs := make([]float64, len(tenure))
	for i, t := range tenure {
		tenureYrs[i] = math.Round(float64(t)/12*100) / 100
	}

	out := dataframe.New(
		series.New(ids, series.String, IDColumn),
		series.New(contract, series.Int, "contract_type"),
		series.New(phone, series.Int, "phone"),
		series.New(internet, series.Int, "internet_type"),
		series.New(senior, series.Int, "senior"),
		series.New(partner, series.Int, "partner"),
		series.New(depend, series.Int, "depend"),
		series.New(tenure, series.Int, "tenure"),
		series.New(monthly, series.Float, "monthly_charges"),
		series.New(totalCharges, series.Float, "total_charges"),
		series.New(numAddOns, series.Int, "num_add_ons"),
		series.New(isMale, series.Int, "is_male"),
		series.New(tenureYrs, series.Float, "tenure_yrs"),
		series.New(churn, series.Int, "churn"),
	)
	if err := out.Error(); err != nil {
		return dataframe.DataFrame{}, 0, fmt.Errorf("building encoded table: %w", err)
	}

	if dropped > 0 {
		e.log.Info("dropped rows with unparsable total_charges",
			zap.Int("dropped", dropped),
			zap.Int("kept", out.Nrow()))
	}
	return out, dropped, nil
}

// mapCategory encodes one categorical column through its table,
// keeping only masked rows. Any value outside the table is an error,
// never a silent null.
func mapCategory(df dataframe.DataFrame, col string, table map[string]int, keep []bool) ([]int, error) {
	records := df.Col(col).Records()
	out := make([]int, 0, len(records))
	for i, raw := range records {
		code, ok := table[strings.TrimSpace(raw)]
		if !ok {
			return nil, &UnrecognizedCategoryError{Column: col, Value: raw, Row: i}
		}
		if keep[i] {
			out = append(out, code)
		}
	}
	return out, nil
}

func intColumn(df dataframe.DataFrame, col string, keep []bool) ([]int, error) {
	records := df.Col(col).Records()
	out := make([]int, 0, len(records))
	for i, raw := range records {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("prepare: column %q row %d: %w", col, i, err)
		}
		if keep[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

func floatColumn(df dataframe.DataFrame, col string, keep []bool) ([]float64, error) {
	records := df.Col(col).Records()
	out := make([]float64, 0, len(records))
	for i, raw := range records {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("prepare: column %q row %d: %w", col, i, err)
		}
		if keep[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

func keepStrings(records []string, keep []bool) []string {
	out := make([]string, 0, len(records))
	for i, r := range records {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
