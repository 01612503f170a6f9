package taxpool

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/taxpool/taxpool/date"
)

var (
	testUSD = mustAsset("USD", 2)
	testBTC = mustAsset("BTC", 8)
	testETH = mustAsset("ETH", 8)
)

func mustAsset(ticker string, decimals int32) Asset {
	a, err := NewAsset(ticker, decimals)
	if err != nil {
		panic(err.Error())
	}
	return a
}

// dec is a helper for tests to write decimal constants.
func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func day(s string) date.Date { return date.MustParse(s) }

// deposit builds a BTC-credit deposit paid in USD.
func deposit(t *testing.T, on string, action Action, usd, btc, btcFee string) *PoolDeposit {
	t.Helper()
	d, err := NewPoolDeposit(day(on), action,
		Leg{Asset: testUSD, Amount: dec(usd)},
		Leg{Asset: testBTC, Amount: dec(btc), Fee: dec(btcFee)})
	if err != nil {
		t.Fatalf("NewPoolDeposit() failed: %v", err)
	}
	return d
}

// withdrawal builds a BTC-debit withdrawal credited in USD.
func withdrawal(t *testing.T, on string, action Action, btc, btcFee, usd string) *PoolWithdrawal {
	t.Helper()
	w, err := NewPoolWithdrawal(day(on), action,
		Leg{Asset: testBTC, Amount: dec(btc), Fee: dec(btcFee)},
		Leg{Asset: testUSD, Amount: dec(usd)})
	if err != nil {
		t.Fatalf("NewPoolWithdrawal() failed: %v", err)
	}
	return w
}

// depositTotal sums the subunit balances of a pool's open deposits plus what
// was consumed into closed lots, for conservation checks.
func depositTotal(p *AssetPool) int64 {
	var total int64
	for _, d := range p.OpenDeposits() {
		total += d.Subunits()
	}
	for _, lot := range p.ClosedLots() {
		total += lot.Acquisition().Subunits()
	}
	return total
}
