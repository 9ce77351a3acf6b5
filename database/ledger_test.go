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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

func TestUpsertMonthReport_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	txnDate := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	entry := &model.LedgerEntry{
		UnitID:      "unit_1",
		EntryType:   model.EntryTypeMonthReport,
		Description: "June 2024 statement",
		Reference:   "Client Report 2406",
		Amount:      1500.00,
		BalanceAfter: 1500.00,
		TxnDate:     &txnDate,
		CreatedBy:   "reports@owners2",
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM backoffice.ledger_entries").
		WithArgs(entry.UnitID, entry.Reference).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO backoffice.ledger_entries").
		WithArgs(sqlmock.AnyArg(), entry.UnitID, entry.EntryType, entry.Description, sqlmock.AnyArg(),
			entry.Amount, entry.BalanceAfter, entry.TxnDate, sqlmock.AnyArg(), entry.CreatedBy).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
	mock.ExpectCommit()

	saved, replaced, err := ds.UpsertMonthReport(context.Background(), entry)
	assert.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, int64(41), saved.ID)
	assert.NotEmpty(t, saved.LedgerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertMonthReport_ReplacesExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	entry := &model.LedgerEntry{
		LedgerID:     "ldg_existing",
		UnitID:       "unit_1",
		EntryType:    model.EntryTypeMonthReport,
		Description:  "June 2024 statement, regenerated",
		Reference:    "Client Report 2406",
		Amount:       1650.00,
		BalanceAfter: 1650.00,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM backoffice.ledger_entries").
		WithArgs(entry.UnitID, entry.Reference).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE backoffice.ledger_entries").
		WithArgs(int64(7), entry.EntryType, entry.Description, entry.Amount, entry.BalanceAfter,
			nil, sqlmock.AnyArg(), entry.CreatedBy).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	saved, replaced, err := ds.UpsertMonthReport(context.Background(), entry)
	assert.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, int64(7), saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentEntry_ExtendsRunningBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	entry := &model.LedgerEntry{
		UnitID:      "unit_1",
		EntryType:   model.EntryTypeO2Payment,
		Description: "Payment June 2024",
		Amount:      -1500.00,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance_after FROM backoffice.ledger_entries").
		WithArgs(entry.UnitID).
		WillReturnRows(sqlmock.NewRows([]string{"balance_after"}).AddRow(2300.50))
	mock.ExpectQuery("INSERT INTO backoffice.ledger_entries").
		WithArgs(sqlmock.AnyArg(), entry.UnitID, entry.EntryType, entry.Description, sqlmock.AnyArg(),
			entry.Amount, 800.50, nil, sqlmock.AnyArg(), entry.CreatedBy).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	saved, err := ds.RecordPaymentEntry(context.Background(), entry)
	assert.NoError(t, err)
	assert.Equal(t, 800.50, saved.BalanceAfter)
	assert.Equal(t, int64(42), saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentEntry_FirstEntryOpensAtZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	entry := &model.LedgerEntry{
		UnitID:    "unit_new",
		EntryType: model.EntryTypeManual,
		Amount:    250.00,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance_after FROM backoffice.ledger_entries").
		WithArgs(entry.UnitID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO backoffice.ledger_entries").
		WithArgs(sqlmock.AnyArg(), entry.UnitID, entry.EntryType, entry.Description, sqlmock.AnyArg(),
			entry.Amount, 250.00, nil, sqlmock.AnyArg(), entry.CreatedBy).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	saved, err := ds.RecordPaymentEntry(context.Background(), entry)
	assert.NoError(t, err)
	assert.Equal(t, 250.00, saved.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentEntry_DuplicateReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	entry := &model.LedgerEntry{
		UnitID:    "unit_1",
		EntryType: model.EntryTypeClientPayment,
		Reference: "pay-2406-1",
		Amount:    -900.00,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance_after FROM backoffice.ledger_entries").
		WithArgs(entry.UnitID).
		WillReturnRows(sqlmock.NewRows([]string{"balance_after"}).AddRow(900.00))
	mock.ExpectQuery("INSERT INTO backoffice.ledger_entries").
		WillReturnError(&pq.Error{Code: "23505", Message: "unique_violation"})
	mock.ExpectRollback()

	_, err = ds.RecordPaymentEntry(context.Background(), entry)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLedgerEntryByReference_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM backoffice.ledger_entries").
		WithArgs("unit_1", "Client Report 2406").
		WillReturnError(sql.ErrNoRows)

	_, err = ds.GetLedgerEntryByReference(context.Background(), "unit_1", "Client Report 2406")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLedgerEntriesBefore_NewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	before := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "ledger_id", "unit_id", "entry_type", "description", "reference", "amount", "balance_after", "txn_date", "created_at", "created_by"}).
		AddRow(9, "ldg_b", "unit_1", model.EntryTypeMonthReport, "June statement", "Client Report 2406", 1500.00, 2300.00, nil, time.Now(), "reports").
		AddRow(8, "ldg_a", "unit_1", model.EntryTypeO2Payment, "Payment May", nil, -700.00, 800.00, nil, time.Now(), "reports")

	mock.ExpectQuery("SELECT .* FROM backoffice.ledger_entries").
		WithArgs("unit_1", before, 2).
		WillReturnRows(rows)

	entries, err := ds.GetLedgerEntriesBefore(context.Background(), "unit_1", before, 2)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "ldg_b", entries[0].LedgerID)
	assert.Equal(t, "", entries[1].Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}
