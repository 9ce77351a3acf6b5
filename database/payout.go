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
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

// RecordPayout stores an imported channel payout.
func (d Datasource) RecordPayout(ctx context.Context, payout *model.Payout) (*model.Payout, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Saving payout to db")
	defer span.End()

	metaDataJSON, err := json.Marshal(payout.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	if payout.PayoutID == "" {
		payout.PayoutID = GenerateUUIDWithSuffix("po")
	}
	payout.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO backoffice.payouts (payout_id, unit_id, amount, payout_date, arriving_by, method, reference, created_at, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, payout.PayoutID, payout.UnitID, payout.Amount, payout.PayoutDate, payout.ArrivingBy, payout.Method, payout.Reference, payout.CreatedAt, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Payout with this ID already exists", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Invalid unit ID", err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record payout", err)
	}

	return payout, nil
}

// GetPayoutByID retrieves a payout by its id.
func (d Datasource) GetPayoutByID(ctx context.Context, id string) (*model.Payout, error) {
	payout := model.Payout{}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT payout_id, unit_id, amount, payout_date, arriving_by, method, reference, recon_entry_id, recon_checked_at, recon_checked_by, created_at, meta_data
		FROM backoffice.payouts
		WHERE payout_id = $1
	`, id)

	var metaDataJSON []byte
	var reconEntryID, reconCheckedBy sql.NullString
	err := row.Scan(&payout.PayoutID, &payout.UnitID, &payout.Amount, &payout.PayoutDate, &payout.ArrivingBy,
		&payout.Method, &payout.Reference, &reconEntryID, &payout.ReconCheckedAt, &reconCheckedBy,
		&payout.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Payout with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payout", err)
	}
	payout.ReconEntryID = reconEntryID.String
	payout.ReconCheckedBy = reconCheckedBy.String

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &payout.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	return &payout, nil
}

// GetPayoutsInWindow retrieves payouts whose expected sent date falls in
// [from, to]. A payout with no reported payout date is dated backwards from
// its arriving-by promise; payouts with neither date never surface here.
func (d Datasource) GetPayoutsInWindow(ctx context.Context, from, to time.Time, sentOffsetDays int, includeChecked bool) ([]*model.Payout, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Fetching payouts in window")
	defer span.End()

	query := `
		SELECT payout_id, unit_id, amount, payout_date, arriving_by, method, reference, recon_entry_id, recon_checked_at, recon_checked_by, created_at
		FROM backoffice.payouts
		WHERE COALESCE(payout_date, arriving_by - make_interval(days => $3)) BETWEEN $1 AND $2
	`
	if !includeChecked {
		query += ` AND recon_checked_at IS NULL`
	}
	query += ` ORDER BY COALESCE(payout_date, arriving_by - make_interval(days => $3)) ASC, payout_id ASC`

	rows, err := d.Conn.QueryContext(ctx, query, from, to, sentOffsetDays)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payouts", err)
	}
	defer rows.Close()

	payouts := []*model.Payout{}

	for rows.Next() {
		payout := model.Payout{}
		var reconEntryID, reconCheckedBy sql.NullString
		err = rows.Scan(&payout.PayoutID, &payout.UnitID, &payout.Amount, &payout.PayoutDate, &payout.ArrivingBy,
			&payout.Method, &payout.Reference, &reconEntryID, &payout.ReconCheckedAt, &reconCheckedBy, &payout.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan payout data", err)
		}
		payout.ReconEntryID = reconEntryID.String
		payout.ReconCheckedBy = reconCheckedBy.String
		payouts = append(payouts, &payout)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over payouts", err)
	}

	return payouts, nil
}

// RecordBankEntry stores an imported bank statement row.
func (d Datasource) RecordBankEntry(ctx context.Context, entry *model.BankEntry) (*model.BankEntry, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Saving bank entry to db")
	defer span.End()

	if entry.EntryID == "" {
		entry.EntryID = GenerateUUIDWithSuffix("be")
	}

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO backoffice.bank_entries (entry_id, source, fecha_on, concepto, deposito, retiro, tipo_movimiento)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.EntryID, entry.Source, entry.FechaOn, entry.Concept, entry.Deposit, entry.Withdrawal, entry.MovementType)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Bank entry with this ID already exists", err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record bank entry", err)
	}

	return entry, nil
}

// GetBankEntryByID retrieves a bank entry by its id.
func (d Datasource) GetBankEntryByID(ctx context.Context, id string) (*model.BankEntry, error) {
	entry := model.BankEntry{}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT entry_id, source, fecha_on, concepto, deposito, retiro, tipo_movimiento, recon_payout_id, recon_checked_at, recon_checked_by
		FROM backoffice.bank_entries
		WHERE entry_id = $1
	`, id)

	var reconPayoutID, reconCheckedBy sql.NullString
	err := row.Scan(&entry.EntryID, &entry.Source, &entry.FechaOn, &entry.Concept, &entry.Deposit,
		&entry.Withdrawal, &entry.MovementType, &reconPayoutID, &entry.ReconCheckedAt, &reconCheckedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Bank entry with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve bank entry", err)
	}
	entry.ReconPayoutID = reconPayoutID.String
	entry.ReconCheckedBy = reconCheckedBy.String

	return &entry, nil
}

// GetBankEntriesInWindow retrieves deposit rows of one statement source posted
// inside [from, to]. Only credit rows are candidates; Espiral statements mark
// those with the Abono movement type, elsewhere any positive deposit counts.
func (d Datasource) GetBankEntriesInWindow(ctx context.Context, source string, from, to time.Time, onlyUnlinked bool) ([]model.BankEntry, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Fetching bank entries in window")
	defer span.End()

	query := `
		SELECT entry_id, source, fecha_on, concepto, deposito, retiro, tipo_movimiento, recon_payout_id, recon_checked_at, recon_checked_by
		FROM backoffice.bank_entries
		WHERE source = $1 AND fecha_on BETWEEN $2 AND $3
		AND (deposito > 0 OR tipo_movimiento = $4)
	`
	if onlyUnlinked {
		query += ` AND recon_payout_id IS NULL`
	}
	query += ` ORDER BY fecha_on ASC, entry_id ASC`

	rows, err := d.Conn.QueryContext(ctx, query, source, from, to, model.AbonoMovement)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve bank entries", err)
	}
	defer rows.Close()

	entries := []model.BankEntry{}

	for rows.Next() {
		entry := model.BankEntry{}
		var reconPayoutID, reconCheckedBy sql.NullString
		err = rows.Scan(&entry.EntryID, &entry.Source, &entry.FechaOn, &entry.Concept, &entry.Deposit,
			&entry.Withdrawal, &entry.MovementType, &reconPayoutID, &entry.ReconCheckedAt, &reconCheckedBy)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan bank entry data", err)
		}
		entry.ReconPayoutID = reconPayoutID.String
		entry.ReconCheckedBy = reconCheckedBy.String
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over bank entries", err)
	}

	return entries, nil
}

// GetUnmatchedDeposits retrieves credit rows with no linked payout.
func (d Datasource) GetUnmatchedDeposits(ctx context.Context, source string, from, to time.Time) ([]model.BankEntry, error) {
	return d.GetBankEntriesInWindow(ctx, source, from, to, true)
}

// LinkPayoutToEntry marks a payout checked against a bank entry and the entry
// linked back to the payout, in one transaction. Re-linking the same pair is a
// no-op; a payout already checked against a different entry is a conflict.
func (d Datasource) LinkPayoutToEntry(ctx context.Context, payoutID, entryID, checkedBy string) error {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Linking payout to bank entry")
	defer span.End()

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logrus.Error("failed to rollback transaction: ", err)
		}
	}()

	var existingEntryID sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT recon_entry_id FROM backoffice.payouts WHERE payout_id = $1 FOR UPDATE
	`, payoutID).Scan(&existingEntryID)
	if err != nil {
		if err == sql.ErrNoRows {
			return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Payout with ID '%s' not found", payoutID), err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payout", err)
	}

	if existingEntryID.Valid && existingEntryID.String != "" {
		if existingEntryID.String == entryID {
			return nil
		}
		return apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("Payout '%s' is already checked against entry '%s'", payoutID, existingEntryID.String), nil)
	}

	now := time.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE backoffice.payouts
		SET recon_entry_id = $2, recon_checked_at = $3, recon_checked_by = $4
		WHERE payout_id = $1
	`, payoutID, entryID, now, checkedBy)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update payout", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE backoffice.bank_entries
		SET recon_payout_id = $2, recon_checked_at = $3, recon_checked_by = $4
		WHERE entry_id = $1 AND recon_payout_id IS NULL
	`, entryID, payoutID, now, checkedBy)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update bank entry", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check bank entry update", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("Bank entry '%s' is missing or already linked to another payout", entryID), nil)
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	return nil
}
