package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/heatanim/internal/heat"
)

// Column names of the solver's aggregate output file.
const (
	ColumnTime  = "t"
	ColumnX     = "x"
	ColumnValue = "Temperature"
)

// AggregateSuffix is appended to the solver's output prefix.
const AggregateSuffix = "_all_timesteps.csv"

// ReadAggregate parses a t,x,Temperature file. Row order is not significant.
func ReadAggregate(path string) ([]heat.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeAggregate(f)
}

func DecodeAggregate(src io.Reader) ([]heat.Record, error) {
	r := csv.NewReader(src)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, err
	}

	cols := map[string]int{ColumnTime: -1, ColumnX: -1, ColumnValue: -1}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := cols[name]; ok {
			cols[name] = i
		}
	}
	for name, idx := range cols {
		if idx < 0 {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
	}

	records := make([]heat.Record, 0)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)

		var rec heat.Record
		if rec.T, err = parseCoordinate(row, cols[ColumnTime]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.X, err = parseCoordinate(row, cols[ColumnX]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		// A diverging solver writes inf or nan temperatures; those are kept.
		if rec.Value, err = parseField(row, cols[ColumnValue]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// parseCoordinate is parseField restricted to finite values: grid times and
// positions index the result and cannot be inf or nan.
func parseCoordinate(row []string, idx int) (float64, error) {
	v, err := parseField(row, idx)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite grid coordinate %q", strings.TrimSpace(row[idx]))
	}
	return v, nil
}

func parseField(row []string, idx int) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("row has %d fields, need column %d", len(row), idx+1)
	}
	return strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
}

// WriteAggregate writes records in the solver's aggregate layout.
func WriteAggregate(dst io.Writer, records []heat.Record) error {
	w := csv.NewWriter(dst)

	if err := w.Write([]string{ColumnTime, ColumnX, ColumnValue}); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatFloat(rec.T, 'g', -1, 64),
			strconv.FormatFloat(rec.X, 'g', -1, 64),
			strconv.FormatFloat(rec.Value, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
