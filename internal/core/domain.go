package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Income    Group = "Income"
	Expense   Group = "Expense"
	Asset     Group = "Asset"
	Liability Group = "Liability"
)

type (
	// Group is one of the four fixed transaction categories. It determines
	// the sign of the stored amount and the aggregation bucket.
	Group string

	// Transaction is one ledger row. ID is assigned by the store on insert
	// and never reused. Amount is the signed value: Expense and Liability
	// rows are stored negative, Income and Asset rows positive.
	Transaction struct {
		ID          int64
		Date        string
		Group       Group
		Description string
		Amount      float64
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Groups lists the four categories in display and sort order.
var Groups = []Group{Income, Expense, Asset, Liability}

// Valid reports whether g is one of the four known categories.
func (g Group) Valid() bool {
	switch g {
	case Income, Expense, Asset, Liability:
		return true
	}
	return false
}

// SortPriority returns the position of g in the custom group order.
// Unknown groups sort after all four known ones.
func (g Group) SortPriority() int {
	for i, known := range Groups {
		if g == known {
			return i
		}
	}
	return len(Groups)
}

// SignedAmount applies the group sign rule to a user-entered magnitude:
// Expense and Liability are stored negative, Income and Asset positive.
func SignedAmount(g Group, magnitude float64) float64 {
	mag := math.Abs(magnitude)
	if g == Expense || g == Liability {
		return -mag
	}
	return mag
}

// dateLayouts are the fallback input formats accepted after ISO-8601.
var dateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006", "02-01-2006"}

// NormalizeDate converts a user-typed date to ISO-8601. Empty input becomes
// today. Text matching none of the accepted layouts is returned unchanged;
// dates are never rejected outright.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().Format("2006-01-02")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// ParseDateForSort parses a stored date for ordering purposes. Unparsable
// dates collapse to the zero time so they float to one end consistently.
func ParseDateForSort(s string) time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return t
	}
	return time.Time{}
}
