package taxpool

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeLedger decodes records from a stream of JSONL data from an io.Reader,
// decodes each line into the appropriate record struct, and returns a sorted
// Ledger. The ledger is not checked; call Check on the result.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command Command `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decoded Record

		switch identifier.Command {
		case CmdInit:
			var rec Init
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, err
			}
			decoded = rec
		case CmdDeclare:
			// Use a temporary type so an omitted decimals field keeps the -1
			// sentinel that Validate resolves from the currency table.
			var temp struct {
				baseRec
				Ticker   string `json:"ticker"`
				Decimals *int32 `json:"decimals"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			rec := Declare{baseRec: temp.baseRec, Ticker: temp.Ticker, Decimals: -1}
			if temp.Decimals != nil {
				rec.Decimals = *temp.Decimals
			}
			decoded = rec
		default:
			// Every other command is an action name.
			action, err := ParseAction(string(identifier.Command))
			if err != nil {
				return nil, fmt.Errorf("unknown record command in line %q: %w", string(lineBytes), err)
			}
			var temp struct {
				baseRec
				Debit  *RecordLeg `json:"debit"`
				Credit *RecordLeg `json:"credit"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = Entry{baseRec: temp.baseRec, Debit: temp.Debit, Credit: temp.Credit, action: action}
		}

		ledger.records = append(ledger.records, decoded)
		ledger.processRec(decoded)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	// Perform a stable sort on the ledger based on the record date.
	ledger.stableSort()

	return ledger, nil
}

// EncodeRecord marshals a single record to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeRecord(w io.Writer, rec Record) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// Write the JSON data followed by a newline to create the JSONL format.
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// EncodeLedger reorders records by date and persists them to an io.Writer in
// JSONL format. The sort is stable, meaning records on the same day maintain
// their original relative order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	decimal.MarshalJSONWithoutQuotes = true

	ledger.stableSort()

	for _, rec := range ledger.records {
		if err := EncodeRecord(w, rec); err != nil {
			return err
		}
	}

	return nil
}
