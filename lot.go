package taxpool

import "github.com/google/uuid"

// ClosedPoolLot pairs one consumed acquisition fragment with one consumed
// disposal fragment: the atomic unit of gain/loss reporting. Downstream
// valuation reads the acquisition cost from the deposit leg and the disposal
// proceeds from the withdrawal leg.
type ClosedPoolLot struct {
	id         uuid.UUID
	deposit    *PoolDeposit
	withdrawal *PoolWithdrawal
}

func newClosedPoolLot(d *PoolDeposit, w *PoolWithdrawal) ClosedPoolLot {
	return ClosedPoolLot{id: uuid.New(), deposit: d, withdrawal: w}
}

// ID returns the lot's audit-trail identifier.
func (l ClosedPoolLot) ID() uuid.UUID { return l.id }

// Acquisition returns the deposit leg consumed by this lot.
func (l ClosedPoolLot) Acquisition() *PoolDeposit { return l.deposit }

// Disposal returns the withdrawal leg consumed by this lot.
func (l ClosedPoolLot) Disposal() *PoolWithdrawal { return l.withdrawal }
