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

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

const ledgerColumns = `id, ledger_id, unit_id, entry_type, description, reference, amount, balance_after, txn_date, created_at, created_by`

func scanLedgerEntry(row interface{ Scan(...interface{}) error }) (*model.LedgerEntry, error) {
	e := model.LedgerEntry{}
	var description, reference, createdBy sql.NullString
	err := row.Scan(&e.ID, &e.LedgerID, &e.UnitID, &e.EntryType, &description, &reference,
		&e.Amount, &e.BalanceAfter, &e.TxnDate, &e.CreatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	e.Description = description.String
	e.Reference = reference.String
	e.CreatedBy = createdBy.String
	return &e, nil
}

// nullableReference maps an empty reference to NULL so the per-unit reference
// uniqueness constraint never trips over entries that carry none.
func nullableReference(ref string) sql.NullString {
	return sql.NullString{String: ref, Valid: ref != ""}
}

// GetLedgerEntriesBefore retrieves the newest entries effective before an
// instant, newest first. Entries sort by their business date when present,
// insertion time otherwise.
func (d Datasource) GetLedgerEntriesBefore(ctx context.Context, unitID string, before time.Time, limit int) ([]model.LedgerEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+ledgerColumns+`
		FROM backoffice.ledger_entries
		WHERE unit_id = $1 AND COALESCE(txn_date, created_at) < $2
		ORDER BY COALESCE(txn_date, created_at) DESC, id DESC
		LIMIT $3
	`, unitID, before, limit)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve ledger entries", err)
	}
	defer rows.Close()

	entries := []model.LedgerEntry{}

	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan ledger entry data", err)
		}
		entries = append(entries, *entry)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over ledger entries", err)
	}

	return entries, nil
}

// GetLedgerEntriesForMonth retrieves entries effective inside [from, to),
// oldest first.
func (d Datasource) GetLedgerEntriesForMonth(ctx context.Context, unitID string, from, to time.Time) ([]model.LedgerEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+ledgerColumns+`
		FROM backoffice.ledger_entries
		WHERE unit_id = $1 AND COALESCE(txn_date, created_at) >= $2 AND COALESCE(txn_date, created_at) < $3
		ORDER BY COALESCE(txn_date, created_at) ASC, id ASC
	`, unitID, from, to)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve ledger entries", err)
	}
	defer rows.Close()

	entries := []model.LedgerEntry{}

	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan ledger entry data", err)
		}
		entries = append(entries, *entry)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over ledger entries", err)
	}

	return entries, nil
}

// GetLedgerEntryByReference retrieves an entry by its unique per-unit
// reference.
func (d Datasource) GetLedgerEntryByReference(ctx context.Context, unitID, reference string) (*model.LedgerEntry, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+ledgerColumns+`
		FROM backoffice.ledger_entries
		WHERE unit_id = $1 AND reference = $2
	`, unitID, reference)

	entry, err := scanLedgerEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Ledger entry with reference '%s' not found", reference), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve ledger entry", err)
	}

	return entry, nil
}

// UpsertMonthReport inserts or replaces the month report posting for a unit.
// The existing row, when there is one, is locked and updated in place so a
// regenerated statement overwrites its previous posting instead of stacking a
// second one. Reports whether an existing row was replaced.
func (d Datasource) UpsertMonthReport(ctx context.Context, entry *model.LedgerEntry) (*model.LedgerEntry, bool, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logrus.Error("failed to rollback transaction: ", err)
		}
	}()

	var existingID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM backoffice.ledger_entries
		WHERE unit_id = $1 AND reference = $2
		FOR UPDATE
	`, entry.UnitID, entry.Reference).Scan(&existingID)

	replaced := false
	switch {
	case err == sql.ErrNoRows:
		if entry.LedgerID == "" {
			entry.LedgerID = GenerateUUIDWithSuffix("ldg")
		}
		entry.CreatedAt = time.Now()
		err = tx.QueryRowContext(ctx, `
			INSERT INTO backoffice.ledger_entries (ledger_id, unit_id, entry_type, description, reference, amount, balance_after, txn_date, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, entry.LedgerID, entry.UnitID, entry.EntryType, entry.Description, nullableReference(entry.Reference),
			entry.Amount, entry.BalanceAfter, entry.TxnDate, entry.CreatedAt, entry.CreatedBy).Scan(&entry.ID)
		if err != nil {
			pqErr, ok := err.(*pq.Error)
			if ok && pqErr.Code.Name() == "unique_violation" {
				return nil, false, apierror.NewAPIError(apierror.ErrConflict, "Ledger entry with this reference already exists", err)
			}
			return nil, false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to insert ledger entry", err)
		}
	case err != nil:
		return nil, false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to look up ledger entry", err)
	default:
		replaced = true
		entry.ID = existingID
		entry.CreatedAt = time.Now()
		_, err = tx.ExecContext(ctx, `
			UPDATE backoffice.ledger_entries
			SET entry_type = $2, description = $3, amount = $4, balance_after = $5, txn_date = $6, created_at = $7, created_by = $8
			WHERE id = $1
		`, existingID, entry.EntryType, entry.Description, entry.Amount, entry.BalanceAfter, entry.TxnDate, entry.CreatedAt, entry.CreatedBy)
		if err != nil {
			return nil, false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update ledger entry", err)
		}
		if entry.LedgerID == "" {
			err = tx.QueryRowContext(ctx, `SELECT ledger_id FROM backoffice.ledger_entries WHERE id = $1`, existingID).Scan(&entry.LedgerID)
			if err != nil {
				return nil, false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve ledger entry", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	return entry, replaced, nil
}

// RecordPaymentEntry appends a payment or manual entry, extending the running
// balance from the unit's newest row. The latest row is locked while the new
// balance is derived so concurrent appends serialize.
func (d Datasource) RecordPaymentEntry(ctx context.Context, entry *model.LedgerEntry) (*model.LedgerEntry, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logrus.Error("failed to rollback transaction: ", err)
		}
	}()

	var lastBalance float64
	err = tx.QueryRowContext(ctx, `
		SELECT balance_after FROM backoffice.ledger_entries
		WHERE unit_id = $1
		ORDER BY COALESCE(txn_date, created_at) DESC, id DESC
		LIMIT 1
		FOR UPDATE
	`, entry.UnitID).Scan(&lastBalance)
	if err != nil && err != sql.ErrNoRows {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve latest ledger entry", err)
	}

	if entry.LedgerID == "" {
		entry.LedgerID = GenerateUUIDWithSuffix("ldg")
	}
	entry.CreatedAt = time.Now()
	entry.BalanceAfter = model.Round2(lastBalance + entry.Amount)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO backoffice.ledger_entries (ledger_id, unit_id, entry_type, description, reference, amount, balance_after, txn_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, entry.LedgerID, entry.UnitID, entry.EntryType, entry.Description, nullableReference(entry.Reference),
		entry.Amount, entry.BalanceAfter, entry.TxnDate, entry.CreatedAt, entry.CreatedBy).Scan(&entry.ID)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Ledger entry with this reference already exists", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Invalid unit ID", err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to insert ledger entry", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	return entry, nil
}
