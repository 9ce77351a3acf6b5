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
	"fmt"
	"time"
)

// Report months travel through the system as "YYYY-MM" strings.

// ParseMonth parses a report month.
func ParseMonth(ym string) (time.Time, error) {
	t, err := time.Parse("2006-01", ym)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid report month %q, expected YYYY-MM", ym)
	}
	return t, nil
}

// MonthStart returns the first day of the report month.
func MonthStart(ym string) (time.Time, error) {
	return ParseMonth(ym)
}

// NextMonthStart returns the first day of the month after the report month.
// Ledger rows dated before this instant belong to the report month or earlier.
func NextMonthStart(ym string) (time.Time, error) {
	start, err := ParseMonth(ym)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 1, 0), nil
}

// DaysInMonth returns the number of calendar days in the report month.
func DaysInMonth(ym string) (int, error) {
	start, err := ParseMonth(ym)
	if err != nil {
		return 0, err
	}
	return start.AddDate(0, 1, -1).Day(), nil
}

// MonthShortRef renders the report month as YYMM, the form used in ledger
// references such as "Client Report 2406".
func MonthShortRef(ym string) (string, error) {
	start, err := ParseMonth(ym)
	if err != nil {
		return "", err
	}
	return start.Format("0601"), nil
}

// MonthIndex returns a comparable month ordinal (year*12 + month).
func MonthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
