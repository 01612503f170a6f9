package taxpool

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxpool/taxpool/date"
)

// Command is a typed string identifying the kind of ledger record. Entry
// records use their action name as command.
type Command string

const (
	CmdInit    Command = "init"
	CmdDeclare Command = "declare"
)

// Record is the common interface of all ledger lines.
type Record interface {
	What() Command   // What returns the command of the record (e.g. "declare", "trade").
	When() date.Date // When returns the date on which the record took place.
	Equal(Record) bool
	Validate(l *Ledger) (Record, error)
}

type baseRec struct {
	Command Command   `json:"command"`
	Date    date.Date `json:"date"`
	Memo    string    `json:"memo,omitempty"` // optional rationale for the record
}

func (r baseRec) What() Command   { return r.Command }
func (r baseRec) When() date.Date { return r.Date }

// MarshalJSON implements the json.Marshaler interface for baseRec.
func (r baseRec) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", r.Command)
	w.Append("date", r.Date)
	w.Optional("memo", r.Memo)
	return w.MarshalJSON()
}

// --- Init record ---

// Init declares the ledger's base (valuation) currency. Pools are built for
// every declared asset except the base currency.
type Init struct {
	baseRec
	Currency string `json:"currency"`
}

// NewInit creates a new Init record.
func NewInit(day date.Date, memo, currency string) Init {
	return Init{baseRec: baseRec{Command: CmdInit, Date: day, Memo: memo}, Currency: currency}
}

func (r Init) Equal(other Record) bool {
	o, ok := other.(Init)
	return ok && r.baseRec == o.baseRec && r.Currency == o.Currency
}

// MarshalJSON implements the json.Marshaler interface for Init.
func (r Init) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(r.baseRec)
	w.Append("currency", r.Currency)
	return w.MarshalJSON()
}

// Validate checks the Init record. The base currency must be a known
// ISO-4217 code and can only be set once.
func (r Init) Validate(l *Ledger) (Record, error) {
	if _, err := FiatAsset(r.Currency); err != nil {
		return r, fmt.Errorf("invalid base currency: %w", err)
	}
	if l.base != "" && l.base != r.Currency {
		return r, fmt.Errorf("base currency already set to %s", l.base)
	}
	return r, nil
}

// --- Declare record ---

// Declare registers an asset ticker and its subunit precision for use in the
// ledger.
type Declare struct {
	baseRec
	Ticker   string `json:"ticker"`
	Decimals int32  `json:"decimals"`
}

// NewDeclare creates a new Declare record. Pass decimals -1 to default the
// precision from the ISO-4217 currency table during validation.
func NewDeclare(day date.Date, memo, ticker string, decimals int32) Declare {
	return Declare{baseRec: baseRec{Command: CmdDeclare, Date: day, Memo: memo}, Ticker: ticker, Decimals: decimals}
}

func (r Declare) Equal(other Record) bool {
	o, ok := other.(Declare)
	return ok && r.baseRec == o.baseRec && r.Ticker == o.Ticker && r.Decimals == o.Decimals
}

// MarshalJSON implements the json.Marshaler interface for Declare.
func (r Declare) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(r.baseRec)
	w.Append("ticker", r.Ticker)
	w.Append("decimals", r.Decimals)
	return w.MarshalJSON()
}

// Validate checks the Declare record and applies the quick fix for an
// omitted precision: a known currency code defaults to its table fraction.
func (r Declare) Validate(l *Ledger) (Record, error) {
	if r.Ticker == "" {
		return r, errors.New("declaration ticker is missing")
	}
	if r.Decimals < 0 {
		fiat, err := FiatAsset(r.Ticker)
		if err != nil {
			return r, fmt.Errorf("cannot default decimals for %q: %w", r.Ticker, err)
		}
		r.Decimals = fiat.Decimals()
	}
	if _, err := NewAsset(r.Ticker, r.Decimals); err != nil {
		return r, err
	}
	if _, ok := l.assets[r.Ticker]; ok {
		return r, fmt.Errorf("asset %q already declared in ledger", r.Ticker)
	}
	return r, nil
}

// --- Entry record ---

// RecordLeg is one side of a ledger entry, in decimal amounts.
type RecordLeg struct {
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
	Fee    decimal.Decimal `json:"fee"`
}

// Entry is one asset movement: a dated action with a debit leg (what was
// given up) and a credit leg (what was received). Either leg may be absent.
type Entry struct {
	baseRec
	Debit  *RecordLeg `json:"debit,omitempty"`
	Credit *RecordLeg `json:"credit,omitempty"`

	action Action
}

// NewEntry creates a new Entry record for the given action.
func NewEntry(day date.Date, memo string, action Action, debit, credit *RecordLeg) Entry {
	return Entry{
		baseRec: baseRec{Command: Command(action.String()), Date: day, Memo: memo},
		Debit:   debit,
		Credit:  credit,
		action:  action,
	}
}

// Action returns the entry's action.
func (r Entry) Action() Action { return r.action }

func legEqual(a, b *RecordLeg) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Asset == b.Asset && a.Amount.Equal(b.Amount) && a.Fee.Equal(b.Fee)
}

func (r Entry) Equal(other Record) bool {
	o, ok := other.(Entry)
	return ok && r.baseRec == o.baseRec && legEqual(r.Debit, o.Debit) && legEqual(r.Credit, o.Credit)
}

// MarshalJSON implements the json.Marshaler interface for Entry.
func (r Entry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(r.baseRec)
	if r.Debit != nil {
		w.Append("debit", r.Debit)
	}
	if r.Credit != nil {
		w.Append("credit", r.Credit)
	}
	return w.MarshalJSON()
}

// Validate checks the Entry record: both legs reference declared assets with
// non-negative amounts. Overdraft detection is end-of-day state and lives in
// Ledger.Check, which allows a same-day sell-before-buy that the same-day
// rule settles.
func (r Entry) Validate(l *Ledger) (Record, error) {
	if r.Debit == nil && r.Credit == nil {
		return r, errors.New("entry has neither debit nor credit leg")
	}
	if r.action == Mixed {
		return r, fmt.Errorf("unknown entry command %q", r.Command)
	}
	for _, leg := range []*RecordLeg{r.Debit, r.Credit} {
		if leg == nil {
			continue
		}
		if _, ok := l.assets[leg.Asset]; !ok {
			return r, fmt.Errorf("asset %q not declared in ledger", leg.Asset)
		}
		if leg.Amount.IsNegative() || leg.Fee.IsNegative() {
			return r, fmt.Errorf("%s leg amounts must be non-negative, got %s fee %s", leg.Asset, leg.Amount, leg.Fee)
		}
	}
	return r, nil
}

// consumedSubunits returns how many subunits of the debited asset the entry
// removes from its pool. Transfer and fee events consume their fee only, a
// split consumes its amount, everything else consumes amount plus fee.
func consumedSubunits(asset Asset, action Action, debit *RecordLeg) int64 {
	switch action {
	case Transfer, Fee:
		return asset.Subunits(debit.Fee)
	case Split:
		return asset.Subunits(debit.Amount)
	default:
		return asset.Subunits(debit.Amount) + asset.Subunits(debit.Fee)
	}
}
