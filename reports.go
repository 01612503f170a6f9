package taxpool

import (
	"github.com/shopspring/decimal"

	"github.com/taxpool/taxpool/date"
)

// LotSummary is one realized lot: an acquisition fragment closed against a
// disposal fragment of the same quantity. Quantities are rendered at the
// asset's declared precision.
type LotSummary struct {
	ID       string
	Acquired PoolDate
	Disposed PoolDate
	Action   Action // action of the disposal, Mixed after consolidation
	Quantity string
	Cost     Money // paid on acquisition, set when the debit leg is base currency
	Proceeds Money // received on disposal, set when the credit leg is base currency
	Gain     Money // proceeds minus cost, set when either leg is base currency
}

// OpenPosition is the residual pooled holding carried forward after matching.
type OpenPosition struct {
	Quantity string
	Fees     string
	Cost     Money // set when the pooled debit leg is base currency
}

// DisposalReport lists one asset's realized lots plus its open position.
type DisposalReport struct {
	Asset Asset
	Base  string
	Lots  []LotSummary
	Open  *OpenPosition
}

// TotalGain sums the gains of all lots realized in base currency.
func (r *DisposalReport) TotalGain() Money {
	total := M(decimal.Zero, r.Base)
	for _, lot := range r.Lots {
		total = total.Add(lot.Gain)
	}
	return total
}

// NewDisposalReport summarizes a matched pool against the base currency.
func NewDisposalReport(p *AssetPool, base string) *DisposalReport {
	report := &DisposalReport{Asset: p.Asset(), Base: base}
	asset := p.Asset()
	for _, lot := range p.ClosedLots() {
		d, w := lot.Acquisition(), lot.Disposal()
		s := LotSummary{
			ID:       lot.ID().String(),
			Acquired: d.Date(),
			Disposed: w.Date(),
			Action:   w.Action(),
			Quantity: asset.Format(d.Subunits()),
		}
		if d.DebitAsset().Ticker() == base {
			s.Cost = M(d.DebitAmount().Add(d.DebitFee()), base)
		}
		if w.CreditAsset().Ticker() == base {
			s.Proceeds = M(w.CreditAmount().Sub(w.CreditFee()), base)
		}
		if !s.Cost.IsZero() || !s.Proceeds.IsZero() {
			s.Gain = s.Proceeds.Sub(s.Cost)
		}
		report.Lots = append(report.Lots, s)
	}
	for _, d := range p.OpenDeposits() {
		open := &OpenPosition{
			Quantity: asset.Format(d.Subunits()),
			Fees:     asset.Format(d.CreditFeeSubunits()),
		}
		if d.DebitAsset().Ticker() == base {
			open.Cost = M(d.DebitAmount().Add(d.DebitFee()), base)
		}
		report.Open = open
	}
	return report
}

// DisposalReports matches every pool and returns one report per asset, in
// ticker order.
func (l *Ledger) DisposalReports() ([]*DisposalReport, error) {
	pools, err := l.MatchAll()
	if err != nil {
		return nil, err
	}
	reports := make([]*DisposalReport, 0, len(pools))
	for _, p := range pools {
		reports = append(reports, NewDisposalReport(p, l.base))
	}
	return reports, nil
}

// AssetBalance is one asset's holding at the end of a day, the quantity
// rendered at the asset's declared precision.
type AssetBalance struct {
	Asset    Asset
	Quantity string
}

// BalanceReport holds every declared asset's balance at the end of a day.
type BalanceReport struct {
	Date     date.Date
	Balances []AssetBalance
}

// BalanceReport computes every declared asset's balance at the end of the
// given day, in ticker order.
func (l *Ledger) BalanceReport(on date.Date) (*BalanceReport, error) {
	report := &BalanceReport{Date: on}
	for asset := range l.Assets() {
		q := asset.Format(l.balanceSubunits(asset, on))
		report.Balances = append(report.Balances, AssetBalance{Asset: asset, Quantity: q})
	}
	return report, nil
}
