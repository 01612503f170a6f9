package taxpool

import (
	"fmt"
	"slices"
)

// AssetPool orchestrates one asset's full deposit and withdrawal history:
// ingestion with merge-on-add, the matching rules, and the resulting closed
// lots plus the remaining open pool.
//
// A pool is fed every ledger movement of its asset in chronological order,
// then matched once. It is single-caller, single-asset state; it owns its
// transactions exclusively until they are consumed into closed lots.
type AssetPool struct {
	asset       Asset
	deposits    []*PoolDeposit
	withdrawals []*PoolWithdrawal
	closedLots  []ClosedPoolLot
	matched     bool
}

// NewAssetPool creates an empty pool for the given asset.
func NewAssetPool(asset Asset) *AssetPool {
	return &AssetPool{asset: asset}
}

// Asset returns the asset this pool tracks.
func (p *AssetPool) Asset() Asset { return p.asset }

// ClosedLots returns the realized lots in match order.
func (p *AssetPool) ClosedLots() []ClosedPoolLot { return p.closedLots }

// OpenDeposits returns the remaining unmatched deposits: the open position
// carried forward. After Match it holds at most one pooled deposit.
func (p *AssetPool) OpenDeposits() []*PoolDeposit { return p.deposits }

// AddDeposit ingests an inbound movement. Deposits must arrive in
// chronological, non-decreasing date order.
//
// A trade that nets to zero closes immediately against a synthesized
// zero-cost withdrawal and never enters the open pool. Otherwise same-day
// deposits are consolidated into one lot: same-day acquisitions are treated
// as a single pooled acquisition. Split adjustments are kept apart.
func (p *AssetPool) AddDeposit(d *PoolDeposit) error {
	day, ok := d.date.Day()
	if !ok {
		return fmt.Errorf("pool %s: cannot add a pooled deposit", p.asset)
	}
	if d.credit.asset != p.asset {
		return fmt.Errorf("pool %s: deposit credits %s", p.asset, d.credit.asset)
	}
	if last := len(p.deposits) - 1; last >= 0 {
		if lastDay, ok := p.deposits[last].date.Day(); ok && day.Before(lastDay) {
			return fmt.Errorf("pool %s: deposit on %s arrives after %s", p.asset, day, lastDay)
		}
	}

	if d.action == Trade && d.Subunits() == 0 {
		w := &PoolWithdrawal{PoolTransaction{date: d.date, action: d.action, debit: leg{asset: p.asset}}}
		p.closedLots = append(p.closedLots, newClosedPoolLot(d, w))
		return nil
	}

	if d.action != Split {
		// Deposits are date-ordered: a bounded probe of the tail finds every
		// same-day candidate.
		for i := len(p.deposits) - 1; i >= 0; i-- {
			prev := p.deposits[i]
			prevDay, ok := prev.date.Day()
			if !ok || prevDay != day {
				break
			}
			if prev.action == Split {
				continue
			}
			return prev.merge(&d.PoolTransaction)
		}
	}

	p.deposits = append(p.deposits, d)
	return nil
}

// AddWithdrawal ingests an outbound movement, symmetric to AddDeposit.
// Transfer, fee and split withdrawals are never consolidated; other actions
// merge only into a same-day withdrawal of the same action.
func (p *AssetPool) AddWithdrawal(w *PoolWithdrawal) error {
	day, ok := w.date.Day()
	if !ok {
		return fmt.Errorf("pool %s: cannot add a pooled withdrawal", p.asset)
	}
	if w.debit.asset != p.asset {
		return fmt.Errorf("pool %s: withdrawal debits %s", p.asset, w.debit.asset)
	}
	if last := len(p.withdrawals) - 1; last >= 0 {
		if lastDay, ok := p.withdrawals[last].date.Day(); ok && day.Before(lastDay) {
			return fmt.Errorf("pool %s: withdrawal on %s arrives after %s", p.asset, day, lastDay)
		}
	}

	if w.action == Trade && w.Subunits() == 0 {
		d := &PoolDeposit{PoolTransaction{date: w.date, action: w.action, credit: leg{asset: p.asset}}}
		p.closedLots = append(p.closedLots, newClosedPoolLot(d, w))
		return nil
	}

	if w.action.mergeableWithdrawal() {
		for i := len(p.withdrawals) - 1; i >= 0; i-- {
			prev := p.withdrawals[i]
			prevDay, ok := prev.date.Day()
			if !ok || prevDay != day {
				break
			}
			if prev.action != w.action {
				continue
			}
			return prev.merge(&w.PoolTransaction)
		}
	}

	p.withdrawals = append(p.withdrawals, w)
	return nil
}

// Match runs the matching rules over the pool, in strict priority order:
// same-day rule, then the 30-day look-forward rule, then the residual pool
// rule, each to a fixed point. Finally all remaining deposits consolidate
// into one pooled deposit, the open position carried forward.
//
// The first call consumes the deposit and withdrawal lists and emits closed
// lots; subsequent calls are no-ops.
func (p *AssetPool) Match() error {
	if p.matched {
		return nil
	}
	for {
		ok, err := p.matchSameDay()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	for {
		ok, err := p.match30Days()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	for {
		ok, err := p.matchPool()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	if err := p.mergeDeposits(PooledDate()); err != nil {
		return err
	}
	p.matched = true
	return nil
}

// matchSameDay pairs the first eligible withdrawal with the first eligible
// deposit sharing the identical day. First eligible pair in collection order
// wins. Reports whether a match was made.
func (p *AssetPool) matchSameDay() (bool, error) {
	for wi, w := range p.withdrawals {
		if !w.action.matchableDisposal() {
			continue
		}
		wday, ok := w.date.Day()
		if !ok {
			continue
		}
		for di, d := range p.deposits {
			if !d.action.matchableAcquisition() {
				continue
			}
			dday, ok := d.date.Day()
			if !ok {
				continue
			}
			if dday == wday {
				return true, p.matchFound(wi, di)
			}
		}
	}
	return false, nil
}

// match30Days pairs the first eligible withdrawal with the first eligible
// deposit acquired strictly after it and within 30 calendar days. A disposal
// matches a near-future re-acquisition before falling back to the pool.
func (p *AssetPool) match30Days() (bool, error) {
	for wi, w := range p.withdrawals {
		if !w.action.matchableDisposal() {
			continue
		}
		wday, ok := w.date.Day()
		if !ok {
			continue
		}
		for di, d := range p.deposits {
			if !d.action.matchableAcquisition() {
				continue
			}
			dday, ok := d.date.Day()
			if !ok {
				continue
			}
			if days := wday.Days(dday); days > 0 && days <= 30 {
				return true, p.matchFound(wi, di)
			}
		}
	}
	return false, nil
}

// matchPool settles the first remaining withdrawal against the section-104
// style pool: every deposit dated on or before the withdrawal folds into one
// pooled deposit first.
//
// Transfer and fee events consume no principal: their fee raises the pool's
// fee instead. Split events adjust the pooled amount directly. Everything
// else settles through matchFound.
func (p *AssetPool) matchPool() (bool, error) {
	if len(p.withdrawals) == 0 {
		return false, nil
	}
	w := p.withdrawals[0]
	if err := p.mergeDeposits(w.date); err != nil {
		return false, err
	}

	if len(p.deposits) == 0 || !p.deposits[0].date.IsPooled() {
		return false, fmt.Errorf("%w: cannot withdraw %s %s on %s, pool is empty",
			ErrInsufficientFunds, p.asset.Format(w.Subunits()), p.asset, w.date)
	}
	pool := p.deposits[0]

	switch w.action {
	case Transfer, Fee:
		pool.credit.fee += w.debit.fee
		p.removeWithdrawal(0)
		p.closePoolIfEmpty(w)
		return true, nil
	case Split:
		pool.credit.amount -= w.debit.amount
		p.removeWithdrawal(0)
		p.closePoolIfEmpty(w)
		return true, nil
	default:
		return true, p.matchFound(0, 0)
	}
}

// closePoolIfEmpty closes the pooled deposit against a zero-amount stand-in
// withdrawal once its net balance reaches zero.
func (p *AssetPool) closePoolIfEmpty(w *PoolWithdrawal) {
	pool := p.deposits[0]
	if pool.Subunits() != 0 {
		return
	}
	standIn := &PoolWithdrawal{PoolTransaction{date: w.date, action: w.action, debit: leg{asset: p.asset}}}
	p.removeDeposit(0)
	p.closedLots = append(p.closedLots, newClosedPoolLot(pool, standIn))
}

// matchFound is the common settlement primitive: it closes the withdrawal at
// index wi against the deposit at index di, splitting the larger side so the
// closed lot's two legs carry the same subunit balance.
func (p *AssetPool) matchFound(wi, di int) error {
	w, d := p.withdrawals[wi], p.deposits[di]
	switch {
	case w.Subunits() == d.Subunits():
		p.removeWithdrawal(wi)
		p.removeDeposit(di)
		p.closedLots = append(p.closedLots, newClosedPoolLot(d, w))
	case w.Subunits() > d.Subunits():
		closed, rest, err := w.Split(d.Subunits())
		if err != nil {
			return err
		}
		p.withdrawals[wi] = rest
		p.removeDeposit(di)
		p.closedLots = append(p.closedLots, newClosedPoolLot(d, closed))
	default:
		closed, rest, err := d.Split(w.Subunits())
		if err != nil {
			return err
		}
		p.deposits[di] = rest
		p.removeWithdrawal(wi)
		p.closedLots = append(p.closedLots, newClosedPoolLot(closed, w))
	}
	return nil
}

// mergeDeposits folds every deposit dated on or before the cutoff, along
// with any already-pooled deposit, into one pooled deposit kept at the head
// of the list. A pooled cutoff selects every deposit. Idempotent: a second
// call with the same or a later cutoff only continues into the same target.
func (p *AssetPool) mergeDeposits(cutoff PoolDate) error {
	cutoffDay, dated := cutoff.Day()
	var target *PoolDeposit
	var rest []*PoolDeposit
	for _, d := range p.deposits {
		day, ok := d.date.Day()
		if ok && dated && day.After(cutoffDay) {
			rest = append(rest, d)
			continue
		}
		d.demote()
		if target == nil {
			target = d
			continue
		}
		if err := target.merge(&d.PoolTransaction); err != nil {
			return err
		}
	}
	if target == nil {
		return nil
	}
	p.deposits = append([]*PoolDeposit{target}, rest...)
	return nil
}

func (p *AssetPool) removeDeposit(i int)    { p.deposits = slices.Delete(p.deposits, i, i+1) }
func (p *AssetPool) removeWithdrawal(i int) { p.withdrawals = slices.Delete(p.withdrawals, i, i+1) }
