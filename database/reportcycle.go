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
	"fmt"
	"time"

	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

const cycleColumns = `cycle_id, unit_id, report_month, report_issued_at, report_url, payment_status, payment_at, payment_ref, payment_amount, payment_requested, payment_requested_at, email_status, email_message_id, email_at, created_at, updated_at`

func scanReportCycle(row interface{ Scan(...interface{}) error }) (*model.ReportCycle, error) {
	c := model.ReportCycle{}
	var reportURL, paymentStatus, paymentRef, emailStatus, emailMessageID sql.NullString
	err := row.Scan(&c.CycleID, &c.UnitID, &c.ReportMonth, &c.ReportIssuedAt, &reportURL,
		&paymentStatus, &c.PaymentAt, &paymentRef, &c.PaymentAmount,
		&c.PaymentRequested, &c.PaymentRequestedAt,
		&emailStatus, &emailMessageID, &c.EmailAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ReportURL = reportURL.String
	c.PaymentStatus = paymentStatus.String
	c.PaymentRef = paymentRef.String
	c.EmailStatus = emailStatus.String
	c.EmailMessageID = emailMessageID.String
	return &c, nil
}

// GetReportCycle retrieves the closing tracker row for a unit and month.
func (d Datasource) GetReportCycle(ctx context.Context, unitID, month string) (*model.ReportCycle, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+cycleColumns+`
		FROM backoffice.report_cycles
		WHERE unit_id = $1 AND report_month = $2
	`, unitID, month)

	cycle, err := scanReportCycle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Report cycle for unit '%s' month '%s' not found", unitID, month), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve report cycle", err)
	}

	return cycle, nil
}

// GetReportCyclesForMonth retrieves every closing tracker row for a month.
func (d Datasource) GetReportCyclesForMonth(ctx context.Context, month string) ([]model.ReportCycle, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+cycleColumns+`
		FROM backoffice.report_cycles
		WHERE report_month = $1
		ORDER BY unit_id ASC
	`, month)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve report cycles", err)
	}
	defer rows.Close()

	cycles := []model.ReportCycle{}

	for rows.Next() {
		cycle, err := scanReportCycle(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan report cycle data", err)
		}
		cycles = append(cycles, *cycle)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over report cycles", err)
	}

	return cycles, nil
}

// MarkReportIssued upserts the report stage of a cycle. Issuing again
// refreshes the timestamp; an empty incoming URL keeps the stored one, so
// stage fields never move backwards.
func (d Datasource) MarkReportIssued(ctx context.Context, unitID, month, reportURL string, issuedAt time.Time) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO backoffice.report_cycles (cycle_id, unit_id, report_month, report_issued_at, report_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (unit_id, report_month)
		DO UPDATE SET report_issued_at = EXCLUDED.report_issued_at,
			report_url = COALESCE(NULLIF(EXCLUDED.report_url, ''), backoffice.report_cycles.report_url),
			updated_at = NOW()
	`, GenerateUUIDWithSuffix("cyc"), unitID, month, issuedAt, reportURL)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to mark report issued", err)
	}
	return nil
}

// MarkPaymentSent upserts the payment stage of a cycle.
func (d Datasource) MarkPaymentSent(ctx context.Context, unitID, month, status, ref string, amount float64, at time.Time) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO backoffice.report_cycles (cycle_id, unit_id, report_month, payment_status, payment_ref, payment_amount, payment_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (unit_id, report_month)
		DO UPDATE SET payment_status = COALESCE(NULLIF(EXCLUDED.payment_status, ''), backoffice.report_cycles.payment_status),
			payment_ref = COALESCE(NULLIF(EXCLUDED.payment_ref, ''), backoffice.report_cycles.payment_ref),
			payment_amount = EXCLUDED.payment_amount, payment_at = EXCLUDED.payment_at, updated_at = NOW()
	`, GenerateUUIDWithSuffix("cyc"), unitID, month, status, ref, amount, at)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to mark payment sent", err)
	}
	return nil
}

// MarkEmailSent upserts the email stage of a cycle.
func (d Datasource) MarkEmailSent(ctx context.Context, unitID, month, status, messageID string, at time.Time) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO backoffice.report_cycles (cycle_id, unit_id, report_month, email_status, email_message_id, email_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (unit_id, report_month)
		DO UPDATE SET email_status = COALESCE(NULLIF(EXCLUDED.email_status, ''), backoffice.report_cycles.email_status),
			email_message_id = COALESCE(NULLIF(EXCLUDED.email_message_id, ''), backoffice.report_cycles.email_message_id),
			email_at = EXCLUDED.email_at, updated_at = NOW()
	`, GenerateUUIDWithSuffix("cyc"), unitID, month, status, messageID, at)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to mark email sent", err)
	}
	return nil
}

// MarkPaymentRequested flags the cycle as queued for payment. The flag is
// monotonic and survives later stage updates.
func (d Datasource) MarkPaymentRequested(ctx context.Context, unitID, month string, at time.Time) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO backoffice.report_cycles (cycle_id, unit_id, report_month, payment_requested, payment_requested_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, NOW())
		ON CONFLICT (unit_id, report_month)
		DO UPDATE SET payment_requested = TRUE, payment_requested_at = COALESCE(backoffice.report_cycles.payment_requested_at, EXCLUDED.payment_requested_at), updated_at = NOW()
	`, GenerateUUIDWithSuffix("cyc"), unitID, month, at)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to mark payment requested", err)
	}
	return nil
}
