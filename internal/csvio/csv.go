// Package csvio encodes transactions to CSV interchange text and decodes
// CSV back into validated candidate rows.
//
// The export header is the fixed ordered list date,type,category,
// amount_cents,note. On import the header names are matched
// case-insensitively in any order; note is optional. Decoding never aborts
// on one bad data row: schema errors are collected per row while the rest
// of the file continues to parse.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tally/internal/core"
)

// Headers is the canonical export column order.
var Headers = []string{"date", "type", "category", "amount_cents", "note"}

// ErrMissingHeaders is wrapped by the fatal whole-file error when any
// required column is absent.
var ErrMissingHeaders = errors.New("csv must include headers: " + strings.Join(Headers, ","))

// Row is a validated candidate transaction parsed from CSV; it mirrors
// core.Transaction minus the id.
type Row struct {
	Date        string
	Type        core.TxType
	Category    string
	AmountCents int64
	Note        string
}

// Transaction converts a parsed row to a ledger candidate.
func (r Row) Transaction() core.Transaction {
	return core.Transaction{
		Amount:   r.AmountCents,
		Date:     r.Date,
		Category: r.Category,
		Type:     r.Type,
		Note:     r.Note,
	}
}

// RowError reports one invalid data row. Row is 1-based with the header
// counted as row 1, so the first data row is row 2.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Encode renders transactions as CSV text with the canonical header.
// Amounts are emitted as plain minor-unit integers; fields containing
// commas, quotes or newlines get standard CSV quoting.
func Encode(txs []core.Transaction) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(Headers); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, t := range txs {
		record := []string{
			t.Date,
			string(t.Type),
			t.Category,
			strconv.FormatInt(t.Amount, 10),
			t.Note,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return b.String(), nil
}

// Decode parses CSV text into valid rows plus per-row errors. The returned
// error is non-nil only for structural failures: an empty input or a header
// missing one of the required columns fails the whole parse.
func Decode(r io.Reader) ([]Row, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrMissingHeaders
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "type", "category", "amount_cents"} {
		if _, ok := idx[required]; !ok {
			return nil, nil, ErrMissingHeaders
		}
	}

	var (
		rows    []Row
		rowErrs []RowError
		rowNum  = 1 // header
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: csvErrMessage(err)})
			continue
		}

		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		row := Row{
			Date:     field("date"),
			Type:     core.TxType(field("type")),
			Category: field("category"),
			Note:     field("note"),
		}

		var problems []string
		if !core.ValidDate(row.Date) {
			problems = append(problems, "date must be YYYY-MM-DD")
		}
		if !row.Type.IsValid() {
			problems = append(problems, `type must be "income" or "expense"`)
		}
		if strings.TrimSpace(row.Category) == "" {
			problems = append(problems, "category must not be empty")
		}
		amount, err := strconv.ParseInt(strings.TrimSpace(field("amount_cents")), 10, 64)
		if err != nil || amount < 0 {
			problems = append(problems, "amount_cents must be a non-negative integer")
		} else {
			row.AmountCents = amount
		}

		if len(problems) > 0 {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: strings.Join(problems, ", ")})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

// DecodeString is a convenience wrapper over Decode.
func DecodeString(text string) ([]Row, []RowError, error) {
	return Decode(strings.NewReader(text))
}

func csvErrMessage(err error) string {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
