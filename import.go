package taxpool

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/taxpool/taxpool/date"
)

// ImportMapping describes how to turn one exchange's JSON export into ledger
// entries: a jsonpath selecting the list of rows, and per-field jsonpaths
// evaluated against each row. Mappings are declared in TOML, one file per
// exchange format.
type ImportMapping struct {
	Name    string       `toml:"name"`
	Records string       `toml:"records"` // jsonpath to the array of rows, "$" when the export is the array itself
	Fields  ImportFields `toml:"fields"`
}

// ImportFields holds the per-row jsonpath of every entry field. An empty path
// leaves the field unset; either leg may be fully absent.
type ImportFields struct {
	Date         string `toml:"date"`
	Action       string `toml:"action"`
	Memo         string `toml:"memo"`
	DebitAsset   string `toml:"debit_asset"`
	DebitAmount  string `toml:"debit_amount"`
	DebitFee     string `toml:"debit_fee"`
	CreditAsset  string `toml:"credit_asset"`
	CreditAmount string `toml:"credit_amount"`
	CreditFee    string `toml:"credit_fee"`
}

// ReadImportMapping decodes a TOML mapping file.
func ReadImportMapping(r io.Reader) (*ImportMapping, error) {
	var m ImportMapping
	if err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("cannot decode import mapping: %w", err)
	}
	if m.Records == "" {
		m.Records = "$"
	}
	if m.Fields.Date == "" || m.Fields.Action == "" {
		return nil, fmt.Errorf("import mapping %q must map at least date and action", m.Name)
	}
	return &m, nil
}

// extract evaluates a jsonpath against a row.
// jsonpath is never clear about whether it returns a list of 1 answer, or a
// single answer: keep the first one if any.
func extract(row any, path string) (any, error) {
	jval, err := jsonpath.Get(path, row)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}

func extractString(row any, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	jval, err := extract(row, path)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("path %q: expected a string, got %v", path, jval)
	}
	return s, nil
}

// extractDecimal reads a number from the row. Exchange exports carry amounts
// either as JSON numbers or as decimal strings.
func extractDecimal(row any, path string) (decimal.Decimal, error) {
	if path == "" {
		return decimal.Zero, nil
	}
	jval, err := extract(row, path)
	if err != nil {
		return decimal.Zero, err
	}
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("path %q: invalid amount %q: %w", path, v, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("path %q: expected a number, got %v", path, jval)
	}
}

// leg reads one leg of the row; a missing or empty asset means the leg is
// absent.
func (f ImportFields) leg(row any, asset, amount, fee string) (*RecordLeg, error) {
	ticker, err := extractString(row, asset)
	if err != nil {
		return nil, err
	}
	if ticker == "" {
		return nil, nil
	}
	amt, err := extractDecimal(row, amount)
	if err != nil {
		return nil, err
	}
	f2, err := extractDecimal(row, fee)
	if err != nil {
		return nil, err
	}
	return &RecordLeg{Asset: ticker, Amount: amt, Fee: f2}, nil
}

// Import reads a JSON export and maps every row to an Entry. Entries are
// returned in file order; append them to a ledger and run Check.
func (m *ImportMapping) Import(r io.Reader) ([]Record, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot parse export: %w", err)
	}
	jrows, err := jsonpath.Get(m.Records, jobj)
	if err != nil {
		return nil, fmt.Errorf("error selecting rows with %q: %w", m.Records, err)
	}
	rows, ok := jrows.([]any)
	if !ok {
		return nil, fmt.Errorf("path %q: expected an array of rows, got %T", m.Records, jrows)
	}

	var records []Record
	for i, row := range rows {
		rec, err := m.importRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (m *ImportMapping) importRow(row any) (Record, error) {
	day, err := extractString(row, m.Fields.Date)
	if err != nil {
		return nil, err
	}
	on, err := date.Parse(day)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", day, err)
	}
	name, err := extractString(row, m.Fields.Action)
	if err != nil {
		return nil, err
	}
	action, err := ParseAction(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, err
	}
	memo, err := extractString(row, m.Fields.Memo)
	if err != nil {
		return nil, err
	}
	debit, err := m.Fields.leg(row, m.Fields.DebitAsset, m.Fields.DebitAmount, m.Fields.DebitFee)
	if err != nil {
		return nil, err
	}
	credit, err := m.Fields.leg(row, m.Fields.CreditAsset, m.Fields.CreditAmount, m.Fields.CreditFee)
	if err != nil {
		return nil, err
	}
	return NewEntry(on, memo, action, debit, credit), nil
}
