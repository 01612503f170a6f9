package taxpool

import (
	"strings"
	"testing"
)

func TestAssetSubunitsRounding(t *testing.T) {
	// Half away from zero at the declared precision.
	if got, want := testBTC.Subunits(dec("0.000000015")), int64(2); got != want {
		t.Errorf("Subunits: got %d, want %d", got, want)
	}
	if got, want := testUSD.Subunits(dec("10.005")), int64(1001); got != want {
		t.Errorf("Subunits: got %d, want %d", got, want)
	}
}

func TestAssetFormat(t *testing.T) {
	// Format keeps the declared precision; trailing zeros are significant in
	// reports and error messages.
	if got, want := testBTC.Format(100000000), "1.00000000"; got != want {
		t.Errorf("Format: got %q, want %q", got, want)
	}
	if !strings.Contains(testBTC.Format(100000000), "1.0") {
		t.Error("a whole-unit amount must still render a decimal part")
	}
	if got, want := testUSD.Format(12345), "123.45"; got != want {
		t.Errorf("Format: got %q, want %q", got, want)
	}
	if got, want := testUSD.Format(-100000), "-1000.00"; got != want {
		t.Errorf("Format: got %q, want %q", got, want)
	}
	if got, want := mustAsset("JPY", 0).Format(5), "5"; got != want {
		t.Errorf("Format: got %q, want %q", got, want)
	}
}

func TestFiatAsset(t *testing.T) {
	usd, err := FiatAsset("USD")
	if err != nil {
		t.Fatalf("FiatAsset() failed: %v", err)
	}
	if usd.Ticker() != "USD" || usd.Decimals() != 2 {
		t.Errorf("got %s/%d, want USD/2", usd.Ticker(), usd.Decimals())
	}
	if _, err := FiatAsset("XXQ"); err == nil {
		t.Error("unknown currency code must be rejected")
	}
}
