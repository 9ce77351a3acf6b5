/*
Copyright 2024 Owners2 Backoffice Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMoneyTolerance is the amount drift, in currency units, below which
// two money values are considered the same payment.
const DefaultMoneyTolerance = 1.00

// IsMoneyMismatch reports whether two money values disagree beyond the given
// tolerance. A missing value on either side always counts as a mismatch.
//
// Parameters:
// - a *float64: The first amount, nil when unknown.
// - b *float64: The second amount, nil when unknown.
// - tolerance float64: Maximum allowed absolute difference.
//
// Returns:
// - bool: True when either amount is missing or they differ by more than the tolerance.
func IsMoneyMismatch(a, b *float64, tolerance float64) bool {
	if a == nil || b == nil {
		return true
	}
	return math.Abs(*a-*b) > tolerance
}

// ParseMoney parses a money value from its string form. It returns nil when
// the string is empty or not a number, so it can feed IsMoneyMismatch directly.
func ParseMoney(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// IsDateMismatch reports whether two dates disagree on the calendar day.
// Comparison is on the date part only; time-of-day and timezone suffixes are
// ignored. A missing value on either side always counts as a mismatch.
func IsDateMismatch(a, b string) bool {
	da := DatePart(a)
	db := DatePart(b)
	if da == "" || db == "" {
		return true
	}
	return da != db
}

// DatePart extracts the YYYY-MM-DD portion of a date string. Inputs shorter
// than a full date are returned trimmed as-is.
func DatePart(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// ParseDay parses the date part of s as a calendar day.
func ParseDay(s string) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", DatePart(s))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// FmtMoney renders an amount with exactly two decimal places.
func FmtMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Round2 rounds an amount to two decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FmtDate renders the date part of s as DD-MM-YYYY for display. Values that
// do not carry a parseable date are returned unchanged.
func FmtDate(s string) string {
	d, ok := ParseDay(s)
	if !ok {
		return s
	}
	return d.Format("02-01-2006")
}
