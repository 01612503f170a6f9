package taxpool

import (
	"errors"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MaxDecimals is the largest subunit precision an asset may declare.
const MaxDecimals = 8

// Asset identifies an asset held in a pool, together with the decimal
// precision used to convert its amounts into integer subunits.
//
// An Asset is immutable once referenced by transactions in a pool.
type Asset struct {
	ticker   string
	decimals int32
}

// NewAsset returns an Asset for the given ticker and subunit precision.
func NewAsset(ticker string, decimals int32) (Asset, error) {
	if ticker == "" {
		return Asset{}, errors.New("asset ticker is missing")
	}
	if decimals < 0 || decimals > MaxDecimals {
		return Asset{}, fmt.Errorf("asset %q: decimals must be in [0, %d], got %d", ticker, MaxDecimals, decimals)
	}
	return Asset{ticker: ticker, decimals: decimals}, nil
}

// FiatAsset returns the Asset for an ISO-4217 currency code, taking the
// subunit precision from the currency table.
func FiatAsset(code string) (Asset, error) {
	cur := money.GetCurrency(code)
	if cur == nil {
		return Asset{}, fmt.Errorf("unknown currency code %q", code)
	}
	return NewAsset(cur.Code, int32(cur.Fraction))
}

// Ticker returns the asset's ticker symbol.
func (a Asset) Ticker() string { return a.ticker }

// Decimals returns the asset's subunit precision.
func (a Asset) Decimals() int32 { return a.decimals }

// IsZero reports whether the asset is the zero value, used for an absent leg.
func (a Asset) IsZero() bool { return a == Asset{} }

func (a Asset) String() string { return a.ticker }

// Subunits converts a decimal amount of this asset into integer subunits,
// rounding half away from zero. Subunit arithmetic is exact: merges and
// splits never accumulate rounding error.
func (a Asset) Subunits(amount decimal.Decimal) int64 {
	return amount.Shift(a.decimals).Round(0).IntPart()
}

// Amount converts subunits back into a decimal amount of this asset.
func (a Asset) Amount(subunits int64) decimal.Decimal {
	return decimal.New(subunits, -a.decimals)
}

// Format renders subunits as a decimal string at the asset's declared
// precision, trailing zeros included.
func (a Asset) Format(subunits int64) string {
	return a.Amount(subunits).StringFixed(a.decimals)
}
