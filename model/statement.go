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
	"sort"
	"strings"
	"time"
)

// PaymentType decides which accrual formula a unit settles under.
type PaymentType string

const (
	// PaymentTypeOwners2 pays the owner their payout share and charges costs back.
	PaymentTypeOwners2 PaymentType = "OWNERS2"
	// PaymentTypeClient nets O2's commission and costs against private income.
	PaymentTypeClient PaymentType = "CLIENT"
)

// City buckets expenses by operating region.
type City string

const (
	CityGeneral City = "General"
	CityPlaya   City = "Playa"
	CityTulum   City = "Tulum"
	CityUnknown City = "Unknown"
)

// NormalizeCity maps a free-text city or cost-centre label to its bucket.
// The housekeeping cost centre "housekeepers_general" and admin labels both
// land in General.
func NormalizeCity(raw string) City {
	c := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(c, "playa"):
		return CityPlaya
	case strings.Contains(c, "tulum"):
		return CityTulum
	case strings.Contains(c, "general"), strings.Contains(c, "admin"):
		return CityGeneral
	default:
		return CityUnknown
	}
}

// TransactionKind separates the money movements recorded against a unit.
type TransactionKind string

const (
	KindExpense      TransactionKind = "expense"
	KindCredit       TransactionKind = "credit"
	KindHousekeeping TransactionKind = "hk_charge"
)

// ServiceCategory is the expense category recurring utility payments are
// booked under.
const ServiceCategory = "Pago de Servicios"

// UnitTransaction is an expense, credit or housekeeping charge recorded
// against a unit for a report month.
type UnitTransaction struct {
	TransactionID string          `json:"transaction_id"`
	UnitID        string          `json:"unit_id"`
	Month         string          `json:"month"`
	Kind          TransactionKind `json:"kind"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	CostCentre    string          `json:"cost_centre"`
	Amount        float64         `json:"amount"`
	TxnDate       *time.Time      `json:"txn_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SumTransactions totals the amounts of a transaction list.
func SumTransactions(txns []UnitTransaction) float64 {
	var sum float64
	for _, t := range txns {
		sum += t.Amount
	}
	return sum
}

// CategoryTotal is a per-category expense subtotal.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CityTotal is a per-city expense subtotal.
type CityTotal struct {
	City   City    `json:"city"`
	Amount float64 `json:"amount"`
}

// GroupByCategory buckets transactions by category, sorted by category name.
// Uncategorized rows group under "Other". The bucket totals always add up to
// SumTransactions over the same rows.
func GroupByCategory(txns []UnitTransaction) []CategoryTotal {
	buckets := map[string]float64{}
	for _, t := range txns {
		cat := t.Category
		if strings.TrimSpace(cat) == "" {
			cat = "Other"
		}
		buckets[cat] += t.Amount
	}
	out := make([]CategoryTotal, 0, len(buckets))
	for cat, amt := range buckets {
		out = append(out, CategoryTotal{Category: cat, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// GroupByCity buckets transactions by normalized cost-centre city. The bucket
// totals always add up to SumTransactions over the same rows.
func GroupByCity(txns []UnitTransaction) []CityTotal {
	buckets := map[City]float64{}
	for _, t := range txns {
		buckets[NormalizeCity(t.CostCentre)] += t.Amount
	}
	order := []City{CityGeneral, CityPlaya, CityTulum, CityUnknown}
	out := make([]CityTotal, 0, len(buckets))
	for _, c := range order {
		if amt, ok := buckets[c]; ok {
			out = append(out, CityTotal{City: c, Amount: amt})
		}
	}
	return out
}

// MonthlyAccrual computes the unit's net result for the month.
//
// OWNERS2 units are paid the owner share of every payout, net of O2's
// commission and cleaning, and charged expenses and housekeeping back, with
// credits added on top. CLIENT units keep their private income and credits
// and owe O2 its commission, cleaning and costs; the result is the negation
// of that debt.
func MonthlyAccrual(pt PaymentType, totals SliceTotals, expenses, housekeeping, credits float64) float64 {
	switch pt {
	case PaymentTypeClient:
		clientCredit := totals.OwnerPayoutPrivate + credits
		clientDebit := totals.O2CommissionAirbnb + totals.CleaningAirbnb + expenses + housekeeping
		return -(clientDebit - clientCredit)
	default:
		return totals.OwnerPayoutTotal - (expenses + housekeeping) + credits
	}
}

// StatementSummary are the headline figures shown on top of a statement.
type StatementSummary struct {
	ClientCredit float64 `json:"client_credit"`
	ClientDebit  float64 `json:"client_debit"`
	TotalO2      float64 `json:"total_o2"`
}

// BuildSummary derives the summary cards from the month's totals.
func BuildSummary(totals SliceTotals, expenses, housekeeping, credits float64) StatementSummary {
	return StatementSummary{
		ClientCredit: Round2(totals.OwnerPayoutPrivate + credits),
		ClientDebit:  Round2(totals.O2CommissionAirbnb + totals.CleaningAirbnb + expenses + housekeeping),
		TotalO2:      Round2(totals.O2CommissionAirbnb + totals.CleaningAirbnb),
	}
}

// StatementWarning flags a computation inconsistency found while building a
// statement. Warnings never abort the statement.
type StatementWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MonthlyStatement is the full owner statement for one unit and month.
type MonthlyStatement struct {
	UnitID      string      `json:"unit_id"`
	Month       string      `json:"month"`
	PaymentType PaymentType `json:"payment_type"`

	Slices []BookingSlice `json:"slices"`
	Totals SliceTotals    `json:"totals"`

	Expenses          []UnitTransaction `json:"expenses"`
	Credits           []UnitTransaction `json:"credits"`
	Housekeeping      []UnitTransaction `json:"housekeeping"`
	ExpenseTotal      float64           `json:"expense_total"`
	CreditTotal       float64           `json:"credit_total"`
	HousekeepingTotal float64           `json:"housekeeping_total"`

	ExpensesByCategory []CategoryTotal `json:"expenses_by_category"`
	ExpensesByCity     []CityTotal     `json:"expenses_by_city"`

	Monthly float64 `json:"monthly"`
	Opening float64 `json:"opening"`
	Closing float64 `json:"closing"`

	DaysInMonth  int     `json:"days_in_month"`
	Nights       int     `json:"nights"`
	OccupancyPct float64 `json:"occupancy_pct"`
	AvgRoomFee   float64 `json:"avg_room_fee"`

	Summary          StatementSummary        `json:"summary"`
	ExpectedPayments []ExpectedPaymentResult `json:"expected_payments"`
	Warnings         []StatementWarning      `json:"warnings,omitempty"`
}

// AddWarning appends an inconsistency flag to the statement.
func (s *MonthlyStatement) AddWarning(code, message string) {
	s.Warnings = append(s.Warnings, StatementWarning{Code: code, Message: message})
}

// Occupancy computes occupied nights as a percentage of the month, capped at
// 100. Nights can legitimately exceed days when a unit double-books around a
// cancellation, which the caller flags separately.
func Occupancy(nights, daysInMonth int) float64 {
	if daysInMonth <= 0 {
		return 0
	}
	pct := float64(nights) / float64(daysInMonth) * 100
	return math.Min(Round2(pct), 100)
}
