package taxpool

import "fmt"

// Action tags the ledger event that originated a pool transaction.
type Action int

const (
	// Mixed marks a transaction produced by merging transactions whose
	// actions differ; its origin is no longer a single ledger event.
	Mixed Action = iota
	Trade
	Transfer
	Fee
	Split
	Gift
	Income
	Staking
	Airdrop
)

func (a Action) String() string {
	switch a {
	case Mixed:
		return "mixed"
	case Trade:
		return "trade"
	case Transfer:
		return "transfer"
	case Fee:
		return "fee"
	case Split:
		return "split"
	case Gift:
		return "gift"
	case Income:
		return "income"
	case Staking:
		return "staking"
	case Airdrop:
		return "airdrop"
	default:
		return "unknown"
	}
}

// ParseAction parses a string into an Action. Mixed is not parseable: it only
// arises from merging, never from a ledger record.
func ParseAction(s string) (Action, error) {
	switch s {
	case "trade":
		return Trade, nil
	case "transfer":
		return Transfer, nil
	case "fee":
		return Fee, nil
	case "split":
		return Split, nil
	case "gift":
		return Gift, nil
	case "income":
		return Income, nil
	case "staking":
		return Staking, nil
	case "airdrop":
		return Airdrop, nil
	default:
		return 0, fmt.Errorf("unknown action: %q", s)
	}
}

// matchableDisposal reports whether a withdrawal with this action
// participates in the same-day and 30-day matching rules. Transfer, fee and
// split events never dispose of the holding itself.
func (a Action) matchableDisposal() bool {
	switch a {
	case Transfer, Fee, Split:
		return false
	case Mixed, Trade, Gift, Income, Staking, Airdrop:
		return true
	}
	return false
}

// matchableAcquisition reports whether a deposit with this action
// participates in the same-day and 30-day matching rules. Splits are
// balance adjustments, and gifted or earned units are acquisitions only for
// the residual pool.
func (a Action) matchableAcquisition() bool {
	switch a {
	case Split, Gift, Income, Staking, Airdrop:
		return false
	case Mixed, Trade, Transfer, Fee:
		return true
	}
	return false
}

// mergeableWithdrawal reports whether same-day withdrawals with this action
// may be consolidated on ingestion. Transfer, fee and split events must each
// remain individually traceable.
func (a Action) mergeableWithdrawal() bool {
	switch a {
	case Transfer, Fee, Split:
		return false
	case Mixed, Trade, Gift, Income, Staking, Airdrop:
		return true
	}
	return false
}
