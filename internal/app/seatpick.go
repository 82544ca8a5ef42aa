package app

import (
	"math"
	"sort"

	"github.com/seatwise/ticketer/internal/domain"
)

// PickBestSeats chooses n seats from the free set deterministically:
// lowest row first, then columns closest to that row's midpoint, ties
// broken by ascending seat id. It is a pure function of the input so the
// selection policy is testable without the locking layer.
func PickBestSeats(free []domain.Seat, n int) ([]domain.Seat, error) {
	if n <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if len(free) < n {
		return nil, domain.ErrSeatUnavailable
	}

	mid := rowMidpoints(free)

	ranked := make([]domain.Seat, len(free))
	copy(ranked, free)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		da := math.Abs(float64(a.Col) - mid[a.Row])
		db := math.Abs(float64(b.Col) - mid[b.Row])
		if da != db {
			return da < db
		}
		return a.ID < b.ID
	})

	return ranked[:n], nil
}

// rowMidpoints computes (min+max)/2 of the free columns per row.
func rowMidpoints(seats []domain.Seat) map[string]float64 {
	type bounds struct {
		min, max int
	}
	byRow := make(map[string]bounds)
	for _, s := range seats {
		b, ok := byRow[s.Row]
		if !ok {
			byRow[s.Row] = bounds{min: s.Col, max: s.Col}
			continue
		}
		if s.Col < b.min {
			b.min = s.Col
		}
		if s.Col > b.max {
			b.max = s.Col
		}
		byRow[s.Row] = b
	}

	mid := make(map[string]float64, len(byRow))
	for row, b := range byRow {
		mid[row] = float64(b.min+b.max) / 2
	}
	return mid
}

func seatIDs(seats []domain.Seat) []string {
	ids := make([]string, 0, len(seats))
	for _, s := range seats {
		ids = append(ids, s.ID)
	}
	return ids
}
