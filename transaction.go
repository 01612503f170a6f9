package taxpool

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxpool/taxpool/date"
)

// Leg describes one side of a transaction in decimal amounts, as read from a
// ledger record. A zero-value Leg means the side is absent.
type Leg struct {
	Asset  Asset
	Amount decimal.Decimal
	Fee    decimal.Decimal
}

// leg is one side of a pool transaction: an asset with an amount and a fee,
// both in integer subunits of that asset.
type leg struct {
	asset  Asset
	amount int64
	fee    int64
}

func newLeg(l Leg) (leg, error) {
	out := leg{
		asset:  l.Asset,
		amount: l.Asset.Subunits(l.Amount),
		fee:    l.Asset.Subunits(l.Fee),
	}
	if out.amount < 0 || out.fee < 0 {
		return leg{}, fmt.Errorf("leg amounts must be non-negative, got %s fee %s %s", l.Amount, l.Fee, l.Asset)
	}
	return out, nil
}

// PoolTransaction is the common part of pool deposits and withdrawals: a
// debit leg and a credit leg in subunits, a pool date, and the action of the
// originating ledger event.
type PoolTransaction struct {
	date   PoolDate
	action Action
	debit  leg
	credit leg
}

func newPoolTransaction(day date.Date, action Action, debit, credit Leg) (PoolTransaction, error) {
	dr, err := newLeg(debit)
	if err != nil {
		return PoolTransaction{}, err
	}
	cr, err := newLeg(credit)
	if err != nil {
		return PoolTransaction{}, err
	}
	return PoolTransaction{date: On(day), action: action, debit: dr, credit: cr}, nil
}

// Date returns the transaction's pool date.
func (t *PoolTransaction) Date() PoolDate { return t.date }

// Action returns the action of the originating ledger event, or Mixed after
// merging transactions of differing actions.
func (t *PoolTransaction) Action() Action { return t.action }

// DebitAsset returns the asset of the debit leg.
func (t *PoolTransaction) DebitAsset() Asset { return t.debit.asset }

// CreditAsset returns the asset of the credit leg.
func (t *PoolTransaction) CreditAsset() Asset { return t.credit.asset }

// DebitAmount returns the debit leg amount as a decimal.
func (t *PoolTransaction) DebitAmount() decimal.Decimal { return t.debit.asset.Amount(t.debit.amount) }

// DebitFee returns the debit leg fee as a decimal.
func (t *PoolTransaction) DebitFee() decimal.Decimal { return t.debit.asset.Amount(t.debit.fee) }

// CreditAmount returns the credit leg amount as a decimal.
func (t *PoolTransaction) CreditAmount() decimal.Decimal {
	return t.credit.asset.Amount(t.credit.amount)
}

// CreditFee returns the credit leg fee as a decimal.
func (t *PoolTransaction) CreditFee() decimal.Decimal { return t.credit.asset.Amount(t.credit.fee) }

// DebitSubunits returns the debit leg amount in subunits.
func (t *PoolTransaction) DebitSubunits() int64 { return t.debit.amount }

// DebitFeeSubunits returns the debit leg fee in subunits.
func (t *PoolTransaction) DebitFeeSubunits() int64 { return t.debit.fee }

// CreditSubunits returns the credit leg amount in subunits.
func (t *PoolTransaction) CreditSubunits() int64 { return t.credit.amount }

// CreditFeeSubunits returns the credit leg fee in subunits.
func (t *PoolTransaction) CreditFeeSubunits() int64 { return t.credit.fee }

func (t *PoolTransaction) String() string {
	return fmt.Sprintf("%s %s dr %s %s (fee %s) cr %s %s (fee %s)",
		t.date, t.action,
		t.DebitAmount(), t.debit.asset, t.DebitFee(),
		t.CreditAmount(), t.credit.asset, t.CreditFee())
}

// merge folds other into t. Both must share the same pool date, debit asset
// and credit asset; the four numeric fields are summed, and the action
// becomes Mixed when they differ. Mutates t in place.
func (t *PoolTransaction) merge(o *PoolTransaction) error {
	if !t.date.Equal(o.date) {
		return fmt.Errorf("%w: dates %s and %s differ", ErrMergeConflict, t.date, o.date)
	}
	if t.debit.asset != o.debit.asset || t.credit.asset != o.credit.asset {
		return fmt.Errorf("%w: assets %s/%s and %s/%s differ", ErrMergeConflict,
			t.debit.asset, t.credit.asset, o.debit.asset, o.credit.asset)
	}
	t.debit.amount += o.debit.amount
	t.debit.fee += o.debit.fee
	t.credit.amount += o.credit.amount
	t.credit.fee += o.credit.fee
	if t.action != o.action {
		t.action = Mixed
	}
	return nil
}

// demote turns the transaction into a pooled (undated) one. Used when folding
// dated acquisitions into the section-104 style pool.
func (t *PoolTransaction) demote() { t.date = PooledDate() }

// apportion returns the part of x proportional to n/balance, rounded half
// away from zero to a whole subunit.
func apportion(x, n, balance int64) int64 {
	return decimal.NewFromInt(x).
		Mul(decimal.NewFromInt(n)).
		DivRound(decimal.NewFromInt(balance), 0).
		IntPart()
}

// PoolDeposit is an inbound pool movement. Its balance is the credit amount
// net of the credit fee.
type PoolDeposit struct {
	PoolTransaction
}

// NewPoolDeposit creates a deposit from decimal leg amounts, converting them
// to subunits immediately.
func NewPoolDeposit(day date.Date, action Action, debit, credit Leg) (*PoolDeposit, error) {
	tx, err := newPoolTransaction(day, action, debit, credit)
	if err != nil {
		return nil, err
	}
	return &PoolDeposit{tx}, nil
}

// Subunits returns the deposit's net balance in subunits.
func (d *PoolDeposit) Subunits() int64 { return d.credit.amount - d.credit.fee }

// Split partitions the deposit into two deposits whose balances are exactly
// n and Subunits()−n. The fee and the debit leg are apportioned by
// n/balance; every numeric field of the two parts sums exactly back to the
// original, so no subunit is lost or created.
func (d *PoolDeposit) Split(n int64) (first, second *PoolDeposit, err error) {
	balance := d.Subunits()
	if n <= 0 || n >= balance {
		return nil, nil, fmt.Errorf("%w: quantity %d outside (0, %d)", ErrInvalidSplit, n, balance)
	}
	a, b := *d, *d
	a.credit.fee = apportion(d.credit.fee, n, balance)
	a.credit.amount = n + a.credit.fee
	a.debit.amount = apportion(d.debit.amount, n, balance)
	a.debit.fee = apportion(d.debit.fee, n, balance)
	b.credit.fee = d.credit.fee - a.credit.fee
	b.credit.amount = d.credit.amount - a.credit.amount
	b.debit.amount = d.debit.amount - a.debit.amount
	b.debit.fee = d.debit.fee - a.debit.fee
	return &a, &b, nil
}

// PoolWithdrawal is an outbound pool movement. Its balance is the debit
// amount plus the debit fee: the fee increases the cost of exit.
type PoolWithdrawal struct {
	PoolTransaction
}

// NewPoolWithdrawal creates a withdrawal from decimal leg amounts, converting
// them to subunits immediately.
func NewPoolWithdrawal(day date.Date, action Action, debit, credit Leg) (*PoolWithdrawal, error) {
	tx, err := newPoolTransaction(day, action, debit, credit)
	if err != nil {
		return nil, err
	}
	return &PoolWithdrawal{tx}, nil
}

// Subunits returns the withdrawal's balance in subunits.
func (w *PoolWithdrawal) Subunits() int64 { return w.debit.amount + w.debit.fee }

// Split partitions the withdrawal into two withdrawals whose balances are
// exactly n and Subunits()−n, with the same exact-sum guarantees as
// PoolDeposit.Split.
func (w *PoolWithdrawal) Split(n int64) (first, second *PoolWithdrawal, err error) {
	balance := w.Subunits()
	if n <= 0 || n >= balance {
		return nil, nil, fmt.Errorf("%w: quantity %d outside (0, %d)", ErrInvalidSplit, n, balance)
	}
	a, b := *w, *w
	a.debit.fee = apportion(w.debit.fee, n, balance)
	a.debit.amount = n - a.debit.fee
	a.credit.amount = apportion(w.credit.amount, n, balance)
	a.credit.fee = apportion(w.credit.fee, n, balance)
	b.debit.fee = w.debit.fee - a.debit.fee
	b.debit.amount = w.debit.amount - a.debit.amount
	b.credit.amount = w.credit.amount - a.credit.amount
	b.credit.fee = w.credit.fee - a.credit.fee
	return &a, &b, nil
}
