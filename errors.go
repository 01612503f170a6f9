package taxpool

import "errors"

// The matching engine is pure computation over validated in-memory data:
// every failure below is a contract violation by the caller or by upstream
// validation, surfaced synchronously and never retried.
var (
	// ErrMergeConflict reports an attempt to merge pool transactions whose
	// dates or assets differ.
	ErrMergeConflict = errors.New("pool transaction merge conflict")

	// ErrInvalidSplit reports a split quantity outside (0, balance).
	ErrInvalidSplit = errors.New("invalid pool transaction split")

	// ErrInsufficientFunds reports a withdrawal that cannot be satisfied by
	// the pool. Ledger validation rejects over-withdrawals before they reach
	// the engine, so this indicates a defect upstream.
	ErrInsufficientFunds = errors.New("insufficient funds in pool")
)
