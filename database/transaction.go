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

package database

import (
	"context"
	"database/sql"

	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

// GetUnitTransactions retrieves a unit's transactions of one kind for a month.
func (d Datasource) GetUnitTransactions(ctx context.Context, unitID, month string, kind model.TransactionKind) ([]model.UnitTransaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT transaction_id, unit_id, month, kind, category, description, cost_centre, amount, txn_date, created_at
		FROM backoffice.unit_transactions
		WHERE unit_id = $1 AND month = $2 AND kind = $3
		ORDER BY txn_date ASC NULLS LAST, transaction_id ASC
	`, unitID, month, kind)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transactions", err)
	}
	defer rows.Close()

	txns := []model.UnitTransaction{}

	for rows.Next() {
		t := model.UnitTransaction{}
		var category, description, costCentre sql.NullString
		err = rows.Scan(&t.TransactionID, &t.UnitID, &t.Month, &t.Kind, &category, &description,
			&costCentre, &t.Amount, &t.TxnDate, &t.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transaction data", err)
		}
		t.Category = category.String
		t.Description = description.String
		t.CostCentre = costCentre.String
		txns = append(txns, t)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over transactions", err)
	}

	return txns, nil
}

// GetExpectedPaymentRules retrieves the unit's recurring service payment
// rules, disabled ones included. Disabled rules still surface on statements
// as not our responsibility.
func (d Datasource) GetExpectedPaymentRules(ctx context.Context, unitID string) ([]model.ExpectedPaymentRule, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT unit_id, service, enabled, period, starting_month, expected_amount
		FROM backoffice.expected_payment_rules
		WHERE unit_id = $1
		ORDER BY service ASC
	`, unitID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve expected payment rules", err)
	}
	defer rows.Close()

	rules := []model.ExpectedPaymentRule{}

	for rows.Next() {
		r := model.ExpectedPaymentRule{}
		var startingMonth sql.NullString
		err = rows.Scan(&r.UnitID, &r.Service, &r.Enabled, &r.Period, &startingMonth, &r.ExpectedAmount)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan expected payment rule data", err)
		}
		r.StartingMonth = startingMonth.String
		rules = append(rules, r)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over expected payment rules", err)
	}

	return rules, nil
}
