package taxpool

import "github.com/taxpool/taxpool/date"

// PoolDate is either a specific calendar day, or "pooled": the undated
// section-104 style holding that has lost individual acquisition identity.
type PoolDate struct {
	day    date.Date
	pooled bool
}

// On returns the PoolDate for a specific calendar day.
func On(day date.Date) PoolDate { return PoolDate{day: day} }

// PooledDate returns the undated pool marker.
func PooledDate() PoolDate { return PoolDate{pooled: true} }

// IsPooled reports whether the date is the undated pool marker.
func (p PoolDate) IsPooled() bool { return p.pooled }

// Day returns the calendar day and true, or false for a pooled date.
func (p PoolDate) Day() (date.Date, bool) { return p.day, !p.pooled }

// Equal reports whether two pool dates are the same day, or both pooled.
func (p PoolDate) Equal(o PoolDate) bool { return p == o }

func (p PoolDate) String() string {
	if p.pooled {
		return "pool"
	}
	return p.day.String()
}
