// Package importer parses bank statement CSV exports into transaction rows.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/natog7/PersonalFinance/internal/transaction"
)

var ErrNoHeader = errors.New("statement has no recognizable header row")

// Row is one parsed statement line. Negative statement amounts become
// expenses with the sign dropped.
type Row struct {
	Date   time.Time
	Title  string
	Amount decimal.Decimal
	Type   transaction.Type
}

// headerNames maps the column labels we accept, lowercased, to a canonical
// key. Statements from different banks label the same columns differently.
var headerNames = map[string]string{
	"date":        "date",
	"data":        "date",
	"title":       "title",
	"description": "title",
	"descricao":   "title",
	"descrição":   "title",
	"amount":      "amount",
	"valor":       "amount",
	"value":       "amount",
}

var dateLayouts = []string{time.DateOnly, "02/01/2006", "02-01-2006"}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a whole statement. The header row is located by matching
// column labels; rows before it are ignored (banks put account metadata
// there). Rows with an unparseable date are skipped, a missing title or
// amount is an error.
func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, err := utf8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	records, cols, headerIdx, err := readRecords(data)
	if err != nil {
		return nil, err
	}

	var rows []Row

	for i, record := range records[headerIdx+1:] {
		rowNum := headerIdx + i + 2 // 1-based, after the header

		date, ok := parseDate(cellValue(record, cols["date"]))
		if !ok {
			continue
		}

		title := cellValue(record, cols["title"])
		if title == "" {
			return nil, fmt.Errorf("row %d: missing title", rowNum)
		}

		amount, err := parseAmount(cellValue(record, cols["amount"]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		typ := transaction.TypeIncome
		if amount.IsNegative() {
			typ = transaction.TypeExpense
			amount = amount.Neg()
		}

		rows = append(rows, Row{Date: date, Title: title, Amount: amount, Type: typ})
	}

	return rows, nil
}

// readRecords tries semicolon then comma delimiters, keeping whichever
// yields a recognizable header.
func readRecords(data []byte) ([][]string, map[string]int, int, error) {
	var readErr error

	for _, comma := range []rune{';', ','} {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = comma
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		records, err := reader.ReadAll()
		if err != nil {
			readErr = err
			continue
		}

		if cols, headerIdx := findHeader(records); cols != nil {
			return records, cols, headerIdx, nil
		}
	}

	if readErr != nil {
		return nil, nil, 0, fmt.Errorf("read csv: %w", readErr)
	}

	return nil, nil, 0, ErrNoHeader
}

// findHeader scans for the first row containing date, title and amount
// columns, returning canonical-name -> column-index and the row index.
func findHeader(records [][]string) (map[string]int, int) {
	for rowIdx, record := range records {
		cols := make(map[string]int)

		for i, cell := range record {
			if canonical, ok := headerNames[strings.ToLower(strings.TrimSpace(cell))]; ok {
				cols[canonical] = i
			}
		}

		if len(cols) == 3 {
			return cols, rowIdx
		}
	}

	return nil, 0
}

func cellValue(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount accepts "1234.56", "1234,56" and "1.234,56".
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errors.New("missing amount")
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q", s)
	}

	return amount, nil
}
