package taxpool

import (
	"strings"
	"testing"
)

// testLedger builds a validated ledger from records, failing the test on any
// validation error.
func testLedger(t *testing.T, recs ...Record) *Ledger {
	t.Helper()
	l := NewLedger()
	for _, rec := range recs {
		fixed, err := l.Validate(rec)
		if err != nil {
			t.Fatalf("Validate(%v on %s) failed: %v", rec.What(), rec.When(), err)
		}
		l.Append(fixed)
	}
	return l
}

func usdLeg(amount string) *RecordLeg { return &RecordLeg{Asset: "USD", Amount: dec(amount)} }
func btcLeg(amount, fee string) *RecordLeg {
	return &RecordLeg{Asset: "BTC", Amount: dec(amount), Fee: dec(fee)}
}

func declarations(t *testing.T) []Record {
	t.Helper()
	on := day("2025-01-01")
	return []Record{
		NewInit(on, "", "USD"),
		NewDeclare(on, "", "BTC", 8),
		NewDeclare(on, "", "ETH", 8),
	}
}

func TestInitValidation(t *testing.T) {
	l := NewLedger()
	if _, err := l.Validate(NewInit(day("2025-01-01"), "", "XXX")); err == nil {
		t.Error("unknown currency code must be rejected")
	}

	l.Append(NewInit(day("2025-01-01"), "", "USD"))
	if _, err := l.Validate(NewInit(day("2025-01-02"), "", "EUR")); err == nil {
		t.Error("changing the base currency must be rejected")
	}
	// Re-stating the same base currency is harmless.
	if _, err := l.Validate(NewInit(day("2025-01-02"), "", "USD")); err != nil {
		t.Errorf("restating the base currency: %v", err)
	}
}

func TestInitRegistersBaseCurrency(t *testing.T) {
	// Init alone makes the base currency usable in entries; no separate
	// declaration is needed, or allowed.
	l := testLedger(t, NewInit(day("2025-01-01"), "", "USD"))
	usd, ok := l.Asset("USD")
	if !ok {
		t.Fatal("base currency must be registered as an asset")
	}
	if got := usd.Decimals(); got != 2 {
		t.Errorf("base currency decimals: got %d, want 2", got)
	}
	if l.isPooled("USD") {
		t.Error("base currency must not be pooled")
	}
	if _, err := l.Validate(NewDeclare(day("2025-01-02"), "", "USD", 2)); err == nil {
		t.Error("re-declaring the base currency must be rejected")
	}

	// An entry touching only the base currency validates without any
	// Declare record.
	if _, err := l.Validate(NewEntry(day("2025-01-03"), "", Fee,
		usdLeg("10"), nil)); err != nil {
		t.Errorf("base-currency entry rejected: %v", err)
	}
}

func TestDeclareValidation(t *testing.T) {
	l := NewLedger()

	// A known currency code defaults its precision from the ISO-4217 table.
	fixed, err := l.Validate(NewDeclare(day("2025-01-01"), "", "EUR", -1))
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if got := fixed.(Declare).Decimals; got != 2 {
		t.Errorf("defaulted decimals: got %d, want 2", got)
	}

	if _, err := l.Validate(NewDeclare(day("2025-01-01"), "", "BTC", -1)); err == nil {
		t.Error("unknown ticker cannot default its decimals")
	}
	if _, err := l.Validate(NewDeclare(day("2025-01-01"), "", "BTC", 12)); err == nil {
		t.Error("precision beyond 8 decimals must be rejected")
	}

	l.Append(NewDeclare(day("2025-01-01"), "", "BTC", 8))
	if _, err := l.Validate(NewDeclare(day("2025-01-02"), "", "BTC", 8)); err == nil {
		t.Error("duplicate declaration must be rejected")
	}
}

func TestEntryValidation(t *testing.T) {
	l := testLedger(t, declarations(t)...)

	if _, err := l.Validate(NewEntry(day("2025-02-01"), "", Trade, nil, nil)); err == nil {
		t.Error("entry without legs must be rejected")
	}
	if _, err := l.Validate(NewEntry(day("2025-02-01"), "", Trade,
		&RecordLeg{Asset: "DOGE", Amount: dec("1")}, nil)); err == nil {
		t.Error("undeclared asset must be rejected")
	}
	if _, err := l.Validate(NewEntry(day("2025-02-01"), "", Trade,
		&RecordLeg{Asset: "USD", Amount: dec("-1")}, nil)); err == nil {
		t.Error("negative amount must be rejected")
	}
	if _, err := l.Validate(NewEntry(day("2025-02-01"), "", Trade,
		usdLeg("100"), btcLeg("0.01", "0"))); err != nil {
		t.Errorf("valid trade rejected: %v", err)
	}
}

func TestAppendKeepsDateOrder(t *testing.T) {
	l := testLedger(t, declarations(t)...)
	l.Append(
		NewEntry(day("2025-03-01"), "second", Trade, usdLeg("100"), btcLeg("0.01", "0")),
		NewEntry(day("2025-02-01"), "first", Trade, usdLeg("100"), btcLeg("0.01", "0")),
	)

	var dates []string
	for _, rec := range l.Records() {
		dates = append(dates, rec.When().String())
	}
	for i := 1; i < len(dates); i++ {
		if dates[i] < dates[i-1] {
			t.Fatalf("records out of order: %v", dates)
		}
	}
}

func TestBalance(t *testing.T) {
	l := testLedger(t, declarations(t)...)
	l.Append(
		NewEntry(day("2025-02-01"), "", Trade, usdLeg("500"), btcLeg("1", "0.001")),
		NewEntry(day("2025-03-01"), "", Trade, btcLeg("0.4", "0"), usdLeg("300")),
	)

	bal, err := l.Balance("BTC", day("2025-02-15"))
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if !bal.Equal(dec("0.999")) {
		t.Errorf("mid-period balance: got %s, want 0.999", bal)
	}

	bal, err = l.Balance("BTC", day("2025-03-31"))
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if !bal.Equal(dec("0.599")) {
		t.Errorf("final balance: got %s, want 0.599", bal)
	}

	if _, err := l.Balance("DOGE", day("2025-03-31")); err == nil {
		t.Error("undeclared asset must be rejected")
	}
}

func TestCheckDetectsOverdraft(t *testing.T) {
	l := testLedger(t, declarations(t)...)
	l.Append(
		NewEntry(day("2025-02-01"), "", Trade, usdLeg("500"), btcLeg("1", "0")),
		NewEntry(day("2025-03-01"), "", Trade, btcLeg("2", "0"), usdLeg("1000")),
	)

	err := l.Check()
	if err == nil {
		t.Fatal("overdraft must fail Check")
	}
	if !strings.Contains(err.Error(), "BTC") {
		t.Errorf("error must name the asset, got %q", err)
	}
}

func TestCheckAllowsSameDaySellBeforeBuy(t *testing.T) {
	// The sell is recorded before the buy, on the same day. The same-day rule
	// settles it, so the end-of-day balance check must pass.
	l := testLedger(t, declarations(t)...)
	l.Append(
		NewEntry(day("2025-02-01"), "", Trade, btcLeg("1", "0"), usdLeg("550")),
		NewEntry(day("2025-02-01"), "", Trade, usdLeg("500"), btcLeg("1", "0")),
	)

	if err := l.Check(); err != nil {
		t.Errorf("same-day sell-before-buy must pass Check, got: %v", err)
	}
}

func TestCheckIgnoresBaseCurrencyFunding(t *testing.T) {
	// Spending USD without a funding record is fine: the base currency is the
	// valuation unit, not a pooled asset.
	l := testLedger(t, declarations(t)...)
	l.Append(NewEntry(day("2025-02-01"), "", Trade, usdLeg("500"), btcLeg("1", "0")))

	if err := l.Check(); err != nil {
		t.Errorf("Check() failed: %v", err)
	}
}

func TestCheckTransferConsumesFeeOnly(t *testing.T) {
	l := testLedger(t, declarations(t)...)
	l.Append(
		NewEntry(day("2025-02-01"), "", Trade, usdLeg("500"), btcLeg("1", "0")),
		// Moving the whole holding costs only the network fee.
		NewEntry(day("2025-03-01"), "cold storage", Transfer, btcLeg("1", "0.0001"), nil),
	)
	if err := l.Check(); err != nil {
		t.Errorf("Check() failed: %v", err)
	}

	bal, err := l.Balance("BTC", day("2025-03-31"))
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if !bal.Equal(dec("0.9999")) {
		t.Errorf("balance after transfer: got %s, want 0.9999", bal)
	}
}

func TestMatchAll(t *testing.T) {
	l := testLedger(t, declarations(t)...)
	l.Append(
		NewEntry(day("2025-02-01"), "", Trade, usdLeg("1000"), btcLeg("2", "0")),
		NewEntry(day("2025-02-15"), "", Trade, usdLeg("300"), &RecordLeg{Asset: "ETH", Amount: dec("10")}),
		NewEntry(day("2025-06-01"), "", Trade, btcLeg("1", "0"), usdLeg("700")),
	)

	pools, err := l.MatchAll()
	if err != nil {
		t.Fatalf("MatchAll() failed: %v", err)
	}
	if got := len(pools); got != 2 {
		t.Fatalf("got %d pools, want 2", got)
	}
	// Pools come back in ticker order.
	if pools[0].Asset().Ticker() != "BTC" || pools[1].Asset().Ticker() != "ETH" {
		t.Fatalf("pool order: got %s, %s", pools[0].Asset(), pools[1].Asset())
	}
	if got := len(pools[0].ClosedLots()); got != 1 {
		t.Errorf("BTC lots: got %d, want 1", got)
	}
	if got := len(pools[1].ClosedLots()); got != 0 {
		t.Errorf("ETH lots: got %d, want 0", got)
	}
}

func TestMatchAllCryptoToCrypto(t *testing.T) {
	// A BTC-to-ETH trade is a withdrawal from the BTC pool and a deposit into
	// the ETH pool at once.
	l := testLedger(t, declarations(t)...)
	l.Append(
		NewEntry(day("2025-02-01"), "", Trade, usdLeg("1000"), btcLeg("2", "0")),
		NewEntry(day("2025-04-01"), "", Trade, btcLeg("1", "0"), &RecordLeg{Asset: "ETH", Amount: dec("15")}),
	)

	pools, err := l.MatchAll()
	if err != nil {
		t.Fatalf("MatchAll() failed: %v", err)
	}
	if got := len(pools); got != 2 {
		t.Fatalf("got %d pools, want 2", got)
	}
	if got := len(pools[0].ClosedLots()); got != 1 {
		t.Errorf("BTC lots: got %d, want 1", got)
	}
	if got, want := pools[1].OpenDeposits()[0].Subunits(), int64(1500000000); got != want {
		t.Errorf("ETH open balance: got %d, want %d", got, want)
	}
}

func TestMatchAllInsufficientFunds(t *testing.T) {
	l := testLedger(t, declarations(t)...)
	l.Append(NewEntry(day("2025-02-01"), "", Trade, btcLeg("1", "0"), usdLeg("500")))

	if _, err := l.MatchAll(); err == nil {
		t.Error("selling from an empty pool must fail MatchAll")
	}
}

func TestAssetsIteratesInTickerOrder(t *testing.T) {
	l := testLedger(t, declarations(t)...)
	var tickers []string
	for a := range l.Assets() {
		tickers = append(tickers, a.Ticker())
	}
	want := []string{"BTC", "ETH", "USD"}
	if len(tickers) != len(want) {
		t.Fatalf("got %v, want %v", tickers, want)
	}
	for i := range want {
		if tickers[i] != want[i] {
			t.Fatalf("got %v, want %v", tickers, want)
		}
	}
}

func TestPoolDate(t *testing.T) {
	on := On(day("2025-02-01"))
	if on.IsPooled() {
		t.Error("dated pool date must not be pooled")
	}
	if d, ok := on.Day(); !ok || d != day("2025-02-01") {
		t.Errorf("Day(): got %s, %v", d, ok)
	}
	if got, want := on.String(), "2025-02-01"; got != want {
		t.Errorf("String(): got %q, want %q", got, want)
	}

	pooled := PooledDate()
	if !pooled.IsPooled() {
		t.Error("pooled date must report pooled")
	}
	if _, ok := pooled.Day(); ok {
		t.Error("pooled date has no day")
	}
	if got, want := pooled.String(), "pool"; got != want {
		t.Errorf("String(): got %q, want %q", got, want)
	}
	if on.Equal(pooled) || !on.Equal(On(day("2025-02-01"))) {
		t.Error("Equal() mismatch")
	}
}
