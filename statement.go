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

package backoffice

import (
	"context"
	"fmt"
	"strings"

	"github.com/owners2/backoffice/model"
)

// openingLookback is how many of the newest ledger rows are read when the
// opening balance is derived. Two suffice: the month's own posting, when it
// is the newest, plus the row before it.
const openingLookback = 2

// BuildMonthlyStatement assembles the full owner statement for one unit and
// report month. The statement is a pure read; posting it to the ledger is a
// separate step.
func (b *Backoffice) BuildMonthlyStatement(ctx context.Context, unitID, ym string) (*model.MonthlyStatement, error) {
	unit, err := b.datasource.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	days, err := model.DaysInMonth(ym)
	if err != nil {
		return nil, err
	}
	nextMonth, err := model.NextMonthStart(ym)
	if err != nil {
		return nil, err
	}

	rawSlices, err := b.datasource.GetSlicesForMonth(ctx, unitID, ym)
	if err != nil {
		return nil, err
	}
	slices := model.FilterStatementSlices(rawSlices)

	expenses, err := b.datasource.GetUnitTransactions(ctx, unitID, ym, model.KindExpense)
	if err != nil {
		return nil, err
	}
	credits, err := b.datasource.GetUnitTransactions(ctx, unitID, ym, model.KindCredit)
	if err != nil {
		return nil, err
	}
	housekeeping, err := b.datasource.GetUnitTransactions(ctx, unitID, ym, model.KindHousekeeping)
	if err != nil {
		return nil, err
	}

	totals := model.SumSlices(slices)
	expenseTotal := model.SumTransactions(expenses)
	creditTotal := model.SumTransactions(credits)
	housekeepingTotal := model.SumTransactions(housekeeping)

	monthly := model.MonthlyAccrual(unit.SettlementType(), totals, expenseTotal, housekeepingTotal, creditTotal)

	history, err := b.datasource.GetLedgerEntriesBefore(ctx, unitID, nextMonth, openingLookback)
	if err != nil {
		return nil, err
	}
	opening := model.OpeningBalance(ym, history)

	statement := &model.MonthlyStatement{
		UnitID:      unitID,
		Month:       ym,
		PaymentType: unit.SettlementType(),

		Slices: slices,
		Totals: totals,

		Expenses:          expenses,
		Credits:           credits,
		Housekeeping:      housekeeping,
		ExpenseTotal:      model.Round2(expenseTotal),
		CreditTotal:       model.Round2(creditTotal),
		HousekeepingTotal: model.Round2(housekeepingTotal),

		ExpensesByCategory: model.GroupByCategory(expenses),
		ExpensesByCity:     model.GroupByCity(expenses),

		Monthly: model.Round2(monthly),
		Opening: model.Round2(opening),
		Closing: model.Round2(opening + monthly),

		DaysInMonth:  days,
		Nights:       totals.Nights,
		OccupancyPct: model.Occupancy(totals.Nights, days),
		AvgRoomFee:   model.Round2(model.AverageRoomFee(slices)),

		Summary: model.BuildSummary(totals, expenseTotal, housekeepingTotal, creditTotal),
	}

	if totals.Nights > days {
		statement.AddWarning("OVERBOOKED",
			fmt.Sprintf("Unit was booked %d nights in a %d-day month", totals.Nights, days))
	}

	expected, err := b.evaluateExpectedPayments(ctx, unitID, ym, expenses)
	if err != nil {
		return nil, err
	}
	statement.ExpectedPayments = expected

	return statement, nil
}

// evaluateExpectedPayments runs every recurring service rule of the unit
// against the month's expense list. A service payment counts when an expense
// under the service category matches the rule's service name exactly.
func (b *Backoffice) evaluateExpectedPayments(ctx context.Context, unitID, ym string, expenses []model.UnitTransaction) ([]model.ExpectedPaymentResult, error) {
	rules, err := b.datasource.GetExpectedPaymentRules(ctx, unitID)
	if err != nil {
		return nil, err
	}

	results := make([]model.ExpectedPaymentResult, 0, len(rules))
	for _, rule := range rules {
		found := findServicePayment(expenses, rule.Service)
		result, err := model.EvaluateExpectedPayment(rule, ym, found)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// findServicePayment looks up the month's payment for one service on the
// expense list. Several payments for the same service sum up.
func findServicePayment(expenses []model.UnitTransaction, service string) *float64 {
	var sum float64
	var found bool
	for _, e := range expenses {
		if e.Category != model.ServiceCategory {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(e.Description), strings.TrimSpace(service)) {
			continue
		}
		sum += e.Amount
		found = true
	}
	if !found {
		return nil
	}
	return &sum
}
