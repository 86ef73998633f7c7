// Package split partitions prepared tables into train/validation/test
// subsets and separates feature columns from the target.
package split

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DefaultSeed matches the fixed random state the original experiments
// were run with. Callers inject the seed so tests can vary it.
const DefaultSeed int64 = 666

// ErrTargetNotFound signals that a requested label or target column is
// absent from the table. This is a configuration problem, not a data
// quality one.
var ErrTargetNotFound = errors.New("split: target column not found")

// Partitions holds the three disjoint row subsets of one table.
type Partitions struct {
	Train    dataframe.DataFrame
	Validate dataframe.DataFrame
	Test     dataframe.DataFrame
}

// Stratified performs the churn split: 80/20 into train_validate and
// test, then 70/30 into train and validate, both stratified on the
// binary label so each partition keeps the full table's label
// proportion. Net shares are roughly 56/24/20. Identical input and
// seed always produce identical partitions.
func Stratified(df dataframe.DataFrame, label string, seed int64) (Partitions, error) {
	if err := df.Error(); err != nil {
		return Partitions{}, err
	}
	if !hasColumn(df, label) {
		return Partitions{}, fmt.Errorf("%w: %q", ErrTargetNotFound, label)
	}

	labels := df.Col(label).Records()
	tvIdx, testIdx := sample(labels, 0.20, seed)
	trainValidate := df.Subset(tvIdx)
	test := df.Subset(testIdx)

	tvLabels := make([]string, len(tvIdx))
	for i, idx := range tvIdx {
		tvLabels[i] = labels[idx]
	}
	trainIdx, validateIdx := sample(tvLabels, 0.30, seed)

	return Partitions{
		Train:    trainValidate.Subset(trainIdx),
		Validate: trainValidate.Subset(validateIdx),
		Test:     test,
	}, nil
}

// Mall performs the mall-customers split: two sequential 85/15 splits
// without stratification. The return order (train, test, validate)
// differs from the churn split's train/validate/test; the original
// pipeline is inconsistent here and downstream notebooks depend on
// this order, so it is kept as-is.
func Mall(df dataframe.DataFrame, seed int64) (train, test, validate dataframe.DataFrame, err error) {
	if err := df.Error(); err != nil {
		return train, test, validate, err
	}
	uniform := make([]string, df.Nrow())
	tvIdx, testIdx := sample(uniform, 0.15, seed)
	trainValidate := df.Subset(tvIdx)
	test = df.Subset(testIdx)

	trainIdx, validateIdx := sample(make([]string, len(tvIdx)), 0.15, seed)
	train = trainValidate.Subset(trainIdx)
	validate = trainValidate.Subset(validateIdx)
	return train, test, validate, nil
}

// XY projects a partition into its feature columns and target column.
// Pure projection, no computation.
func XY(df dataframe.DataFrame, target string) (dataframe.DataFrame, series.Series, error) {
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, series.Series{}, err
	}
	if !hasColumn(df, target) {
		return dataframe.DataFrame{}, series.Series{}, fmt.Errorf("%w: %q", ErrTargetNotFound, target)
	}
	return df.Drop(target), df.Col(target), nil
}

// XYSplits is the six-way form of the churn split: per-partition
// feature tables and target columns.
type XYSplits struct {
	XTrain    dataframe.DataFrame
	YTrain    series.Series
	XValidate dataframe.DataFrame
	YValidate series.Series
	XTest     dataframe.DataFrame
	YTest     series.Series
}

// TelcoXY composes Stratified and XY: stratified three-way split on
// the target, then feature/target separation within each partition.
func TelcoXY(df dataframe.DataFrame, target string, seed int64) (XYSplits, error) {
	parts, err := Stratified(df, target, seed)
	if err != nil {
		return XYSplits{}, err
	}
	var out XYSplits
	if out.XTrain, out.YTrain, err = XY(parts.Train, target); err != nil {
		return XYSplits{}, err
	}
	if out.XValidate, out.YValidate, err = XY(parts.Validate, target); err != nil {
		return XYSplits{}, err
	}
	if out.XTest, out.YTest, err = XY(parts.Test, target); err != nil {
		return XYSplits{}, err
	}
	return out, nil
}

// sample draws a fraction of row indices, stratified on the given
// labels: each label group is shuffled with its own deterministic
// order and contributes a quota assigned by largest remainder, so the
// drawn fraction keeps the group proportions. Both returned slices
// are in ascending row order. An all-equal label slice degenerates to
// a plain random split.
func sample(labels []string, frac float64, seed int64) (rest, taken []int) {
	groups := make(map[string][]int)
	var keys []string
	for i, v := range labels {
		if _, ok := groups[v]; !ok {
			keys = append(keys, v)
		}
		groups[v] = append(groups[v], i)
	}
	sort.Strings(keys)

	total := int(math.Round(frac * float64(len(labels))))
	quotas := allocate(groups, keys, frac, total)

	rng := rand.New(rand.NewSource(seed))
	for _, k := range keys {
		idx := append([]int(nil), groups[k]...)
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		taken = append(taken, idx[:quotas[k]]...)
		rest = append(rest, idx[quotas[k]:]...)
	}
	sort.Ints(taken)
	sort.Ints(rest)
	return rest, taken
}

// allocate distributes total across groups proportionally, handing
// leftover units to the groups with the largest fractional parts.
func allocate(groups map[string][]int, keys []string, frac float64, total int) map[string]int {
	quotas := make(map[string]int, len(keys))
	type rem struct {
		key  string
		frac float64
	}
	var rems []rem
	assigned := 0
	for _, k := range keys {
		exact := frac * float64(len(groups[k]))
		base := int(math.Floor(exact))
		quotas[k] = base
		assigned += base
		rems = append(rems, rem{key: k, frac: exact - float64(base)})
	}
	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for i := 0; assigned < total && i < len(rems); i++ {
		quotas[rems[i].key]++
		assigned++
	}
	return quotas
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
