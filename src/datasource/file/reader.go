// Package file reads cached raw tables from disk into gota dataframes
// and watches the cache directory for rewrites.
package file

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// ReadCSV loads a CSV file into a dataframe with every column typed
// as string. Typing raw columns is the encoder's job; letting the
// reader guess types would hide unparsable cells behind NaNs.
func ReadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DefaultType(series.String),
		dataframe.DetectTypes(false),
	)
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	return df, nil
}

// ReadXLSX loads one sheet of an Excel workbook into a dataframe,
// first row as header, every column typed as string.
func ReadXLSX(path, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open xlsx %s: %w", path, err)
	}
	sheet, ok := xlFile.Sheet[sheetName]
	if !ok {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx %s: sheet %q not found", path, sheetName)
	}
	return sheetToDataFrame(sheet)
}

func sheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx sheet %q is empty", sheet.Name)
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}
	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			v := ""
			if i < len(row.Cells) {
				v = row.Cells[i].Value
			}
			columns[i] = append(columns[i], v)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, name := range headers {
		seriesList[i] = series.New(columns[i], series.String, name)
	}

	df := dataframe.New(seriesList...)
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}
