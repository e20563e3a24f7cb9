package optimize

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteResultsCSV writes the sweep result table: one row per combination,
// parameter columns in grid order followed by the metric columns. Failed
// combinations emit NaN in every metric column.
func WriteResultsCSV(path string, grid Grid, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	paramNames := grid.Names()
	metricNames := MetricNames()
	header := append(append([]string{}, paramNames...), metricNames...)
	header = append(header, "error")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		rec := make([]string, 0, len(header))
		for _, name := range paramNames {
			rec = append(rec, fmtParam(row.Params[name]))
		}
		for _, metric := range metricNames {
			rec = append(rec, strconv.FormatFloat(MetricValue(row, metric), 'g', -1, 64))
		}
		rec = append(rec, row.Err)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtParam(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
