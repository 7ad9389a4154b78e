package date

import "iter"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the range from 'from' to 'to'.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Years returns the range starting on 'from' and lasting 'n' whole years, that
// is, ending the day before the same day n years later.
func Years(from Date, n int) Range { return Range{From: from, To: from.AddYears(n).Add(-1)} }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Len returns the number of days in the range, 0 for an inverted range.
func (r Range) Len() int { return max(0, r.To.Sub(r.From)+1) }

// Days iterates over every day in the range in chronological order.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// YearSpan returns the calendar years touched by the range, in order.
func (r Range) YearSpan() iter.Seq[int] {
	return func(yield func(int) bool) {
		if r.To.Before(r.From) {
			return
		}
		for y := r.From.Year(); y <= r.To.Year(); y++ {
			if !yield(y) {
				return
			}
		}
	}
}
