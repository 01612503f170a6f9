package taxpool

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/taxpool/taxpool/date"
)

// Ledger is the ordered list of records describing every asset movement. It
// is the single source of truth: pools, balances and reports all derive from
// it.
type Ledger struct {
	records []Record

	// registry derived from Init and Declare records.
	base   string
	assets map[string]Asset
}

// NewLedger creates a new empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{assets: make(map[string]Asset)}
}

// Append adds records to the ledger and keeps it sorted by date. Records are
// not validated here; use Validate before appending user input, or Check
// after decoding a whole file.
func (l *Ledger) Append(recs ...Record) {
	for _, rec := range recs {
		l.records = append(l.records, rec)
		l.processRec(rec)
	}
	l.stableSort()
}

// processRec updates the asset registry. Invalid declarations are skipped
// here and reported by Check.
func (l *Ledger) processRec(rec Record) {
	switch v := rec.(type) {
	case Init:
		if l.base != "" {
			return
		}
		// The base currency is an asset like any other: entries debit and
		// credit it, balances and reports resolve it. Only pooling excludes
		// it.
		asset, err := FiatAsset(v.Currency)
		if err != nil {
			return
		}
		l.base = v.Currency
		if _, ok := l.assets[asset.Ticker()]; !ok {
			l.assets[asset.Ticker()] = asset
		}
	case Declare:
		asset, err := NewAsset(v.Ticker, v.Decimals)
		if err != nil {
			return
		}
		if _, ok := l.assets[v.Ticker]; !ok {
			l.assets[v.Ticker] = asset
		}
	}
}

// stableSort sorts records by date, preserving the relative order of records
// on the same day.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.records, func(i, j int) bool {
		return l.records[i].When().Before(l.records[j].When())
	})
}

// Validate checks a record against the current ledger state and returns the
// record, possibly with quick fixes applied (e.g. defaulted decimals).
func (l *Ledger) Validate(rec Record) (Record, error) {
	return rec.Validate(l)
}

// Base returns the ledger's base currency ticker, or "" when no Init record
// was appended yet.
func (l *Ledger) Base() string { return l.base }

// Asset returns the declared asset for a ticker.
func (l *Ledger) Asset(ticker string) (Asset, bool) {
	a, ok := l.assets[ticker]
	return a, ok
}

// isPooled reports whether the ticker is a declared asset tracked by a pool.
// The base currency is the valuation unit and is never pooled.
func (l *Ledger) isPooled(ticker string) bool {
	_, ok := l.assets[ticker]
	return ok && ticker != l.base
}

// Records returns an iterator over all records in date order.
func (l *Ledger) Records() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, rec := range l.records {
			if !yield(i, rec) {
				return
			}
		}
	}
}

// Assets returns an iterator over all declared assets in ticker order.
func (l *Ledger) Assets() iter.Seq[Asset] {
	tickers := make([]string, 0, len(l.assets))
	for t := range l.assets {
		tickers = append(tickers, t)
	}
	slices.Sort(tickers)
	return func(yield func(Asset) bool) {
		for _, t := range tickers {
			if !yield(l.assets[t]) {
				return
			}
		}
	}
}

// balanceSubunits returns the asset balance at the end of the given day, in
// subunits. Credit legs add their amount net of fee; debit legs consume per
// their action, mirroring what the matching engine will take from the pool.
func (l *Ledger) balanceSubunits(asset Asset, on date.Date) int64 {
	var bal int64
	for _, rec := range l.records {
		if rec.When().After(on) {
			break
		}
		e, ok := rec.(Entry)
		if !ok {
			continue
		}
		if e.Credit != nil && e.Credit.Asset == asset.Ticker() {
			bal += asset.Subunits(e.Credit.Amount) - asset.Subunits(e.Credit.Fee)
		}
		if e.Debit != nil && e.Debit.Asset == asset.Ticker() {
			bal -= consumedSubunits(asset, e.action, e.Debit)
		}
	}
	return bal
}

// Balance returns the asset balance at the end of the given day.
func (l *Ledger) Balance(ticker string, on date.Date) (decimal.Decimal, error) {
	asset, ok := l.assets[ticker]
	if !ok {
		return decimal.Zero, fmt.Errorf("asset %q not declared in ledger", ticker)
	}
	return asset.Amount(l.balanceSubunits(asset, on)), nil
}

// Check validates the whole ledger: declarations are consistent, every entry
// references declared assets, and no asset balance is negative at the end of
// any day. A ledger that passes Check is guaranteed not to trip the matching
// engine's insufficient-funds guard.
func (l *Ledger) Check() error {
	check := NewLedger()
	balances := make(map[string]int64)
	var day date.Date
	checkDay := func() error {
		for ticker, bal := range balances {
			if bal < 0 {
				return fmt.Errorf("on %s, %s balance is %s", day, ticker, check.assets[ticker].Format(bal))
			}
		}
		return nil
	}
	for _, rec := range l.records {
		if rec.When() != day {
			if err := checkDay(); err != nil {
				return err
			}
			day = rec.When()
		}
		if _, err := rec.Validate(check); err != nil {
			return fmt.Errorf("invalid record on %s: %w", rec.When(), err)
		}
		check.records = append(check.records, rec)
		check.processRec(rec)
		// Only pooled assets are balance-checked. The base currency is the
		// valuation unit and may be spent without a funding record.
		if e, ok := rec.(Entry); ok {
			if e.Credit != nil && check.isPooled(e.Credit.Asset) {
				asset := check.assets[e.Credit.Asset]
				balances[asset.Ticker()] += asset.Subunits(e.Credit.Amount) - asset.Subunits(e.Credit.Fee)
			}
			if e.Debit != nil && check.isPooled(e.Debit.Asset) {
				asset := check.assets[e.Debit.Asset]
				balances[asset.Ticker()] -= consumedSubunits(asset, e.action, e.Debit)
			}
		}
	}
	return checkDay()
}

// recordLegToLeg resolves a record leg against the registry. A nil leg maps
// to the absent (zero) Leg.
func (l *Ledger) recordLegToLeg(rl *RecordLeg) Leg {
	if rl == nil {
		return Leg{}
	}
	return Leg{Asset: l.assets[rl.Asset], Amount: rl.Amount, Fee: rl.Fee}
}

// MatchAll builds one pool per declared non-base asset, feeds it every entry
// touching that asset in date order, runs the matching rules, and returns the
// pools in ticker order. Pools with no movement are omitted.
func (l *Ledger) MatchAll() ([]*AssetPool, error) {
	pools := make(map[string]*AssetPool)
	pool := func(ticker string) *AssetPool {
		p, ok := pools[ticker]
		if !ok {
			p = NewAssetPool(l.assets[ticker])
			pools[ticker] = p
		}
		return p
	}

	for _, rec := range l.records {
		e, ok := rec.(Entry)
		if !ok {
			continue
		}
		if e.Credit != nil && l.isPooled(e.Credit.Asset) {
			d, err := NewPoolDeposit(e.When(), e.action, l.recordLegToLeg(e.Debit), l.recordLegToLeg(e.Credit))
			if err != nil {
				return nil, fmt.Errorf("on %s: %w", e.When(), err)
			}
			if err := pool(e.Credit.Asset).AddDeposit(d); err != nil {
				return nil, err
			}
		}
		if e.Debit != nil && l.isPooled(e.Debit.Asset) {
			w, err := NewPoolWithdrawal(e.When(), e.action, l.recordLegToLeg(e.Debit), l.recordLegToLeg(e.Credit))
			if err != nil {
				return nil, fmt.Errorf("on %s: %w", e.When(), err)
			}
			if err := pool(e.Debit.Asset).AddWithdrawal(w); err != nil {
				return nil, err
			}
		}
	}

	tickers := make([]string, 0, len(pools))
	for t := range pools {
		tickers = append(tickers, t)
	}
	slices.Sort(tickers)

	out := make([]*AssetPool, 0, len(pools))
	for _, t := range tickers {
		p := pools[t]
		if err := p.Match(); err != nil {
			return nil, fmt.Errorf("pool %s: %w", t, err)
		}
		out = append(out, p)
	}
	return out, nil
}
