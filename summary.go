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

	"github.com/owners2/backoffice/model"
)

// O2MonthlySummary aggregates the month across every active unit from O2's
// side of the books.
type O2MonthlySummary struct {
	Month string `json:"month"`
	Units int    `json:"units"`

	CommissionAirbnb float64 `json:"commission_airbnb"`
	CleaningAirbnb   float64 `json:"cleaning_airbnb"`
	Expenses         float64 `json:"expenses"`
	Housekeeping     float64 `json:"housekeeping"`
	Credits          float64 `json:"credits"`
	OwnerAccruals    float64 `json:"owner_accruals"`

	ExpensesByCity []model.CityTotal `json:"expenses_by_city"`

	Warnings []model.StatementWarning `json:"warnings,omitempty"`
}

// MonthlySummary rolls the month up across all active units. Units are
// aggregated from their statements, so the summary always agrees with what
// each owner sees.
func (b *Backoffice) MonthlySummary(ctx context.Context, ym string) (*O2MonthlySummary, error) {
	units, err := b.datasource.GetActiveUnits(ctx)
	if err != nil {
		return nil, err
	}

	summary := &O2MonthlySummary{Month: ym, Units: len(units)}
	cityTotals := map[model.City]float64{}

	for _, unit := range units {
		statement, err := b.BuildMonthlyStatement(ctx, unit.UnitID, ym)
		if err != nil {
			return nil, err
		}

		summary.CommissionAirbnb += statement.Totals.O2CommissionAirbnb
		summary.CleaningAirbnb += statement.Totals.CleaningAirbnb
		summary.Expenses += statement.ExpenseTotal
		summary.Housekeeping += statement.HousekeepingTotal
		summary.Credits += statement.CreditTotal
		summary.OwnerAccruals += statement.Monthly

		for _, ct := range statement.ExpensesByCity {
			cityTotals[ct.City] += ct.Amount
		}
		for _, w := range statement.Warnings {
			summary.Warnings = append(summary.Warnings, model.StatementWarning{
				Code:    w.Code,
				Message: unit.UnitID + ": " + w.Message,
			})
		}
	}

	summary.CommissionAirbnb = model.Round2(summary.CommissionAirbnb)
	summary.CleaningAirbnb = model.Round2(summary.CleaningAirbnb)
	summary.Expenses = model.Round2(summary.Expenses)
	summary.Housekeeping = model.Round2(summary.Housekeeping)
	summary.Credits = model.Round2(summary.Credits)
	summary.OwnerAccruals = model.Round2(summary.OwnerAccruals)

	order := []model.City{model.CityGeneral, model.CityPlaya, model.CityTulum, model.CityUnknown}
	for _, city := range order {
		if amount, ok := cityTotals[city]; ok {
			summary.ExpensesByCity = append(summary.ExpensesByCity, model.CityTotal{City: city, Amount: model.Round2(amount)})
		}
	}

	return summary, nil
}
