// Package taxpool computes realized capital gains over a ledger of asset
// movements.
//
// A Ledger holds dated records: the base currency (Init), asset
// declarations (Declare) and asset movements (Entry). Each non-base asset's
// movements feed an AssetPool, which settles disposals against acquisitions
// in strict priority order: the same-day rule, the 30-day look-forward
// rule, then the residual pooled-average holding. Matching emits
// ClosedPoolLots, the audit trail of realized disposals, plus the open
// pooled position carried forward.
//
// All quantities are held as integer subunits at each asset's declared
// precision, so merging and splitting transactions never loses or creates
// a unit.
package taxpool
