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
	"github.com/stretchr/testify/assert"

	"github.com/owners2/backoffice/internal/apierror"
)

func TestGetReportCycle_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM backoffice.report_cycles").
		WithArgs("unit_1", "2024-06").
		WillReturnError(sql.ErrNoRows)

	_, err = ds.GetReportCycle(context.Background(), "unit_1", "2024-06")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetReportCyclesForMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	issuedAt := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"cycle_id", "unit_id", "report_month", "report_issued_at", "report_url", "payment_status", "payment_at", "payment_ref", "payment_amount", "payment_requested", "payment_requested_at", "email_status", "email_message_id", "email_at", "created_at", "updated_at"}).
		AddRow("cyc_1", "unit_1", "2024-06", issuedAt, "https://reports/unit_1/2406.pdf", "PAID", nil, "bank-ref-1", 1500.00, false, nil, nil, nil, nil, time.Now(), time.Now()).
		AddRow("cyc_2", "unit_2", "2024-06", nil, nil, nil, nil, nil, 0.0, true, issuedAt, nil, nil, nil, time.Now(), time.Now())

	mock.ExpectQuery("SELECT .* FROM backoffice.report_cycles").
		WithArgs("2024-06").
		WillReturnRows(rows)

	cycles, err := ds.GetReportCyclesForMonth(context.Background(), "2024-06")
	assert.NoError(t, err)
	assert.Len(t, cycles, 2)

	assert.True(t, cycles[0].ReportIssued())
	assert.True(t, cycles[0].PaymentIssued())
	assert.False(t, cycles[0].EmailSent())
	assert.Equal(t, "2/3", cycles[0].Progress())

	assert.False(t, cycles[1].ReportIssued())
	assert.True(t, cycles[1].PaymentRequested)
	assert.Equal(t, "0/3", cycles[1].Progress())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReportIssued_Upserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	issuedAt := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO backoffice.report_cycles").
		WithArgs(sqlmock.AnyArg(), "unit_1", "2024-06", issuedAt, "https://reports/unit_1/2406.pdf").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = ds.MarkReportIssued(context.Background(), "unit_1", "2024-06", "https://reports/unit_1/2406.pdf", issuedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReportIssued_EmptyURLKeepsStoredValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	issuedAt := time.Date(2024, 7, 5, 10, 0, 0, 0, time.UTC)

	// Re-issuing without a URL must not clear a previously stored one.
	mock.ExpectExec(`INSERT INTO backoffice.report_cycles[\s\S]*report_url = COALESCE\(NULLIF\(EXCLUDED\.report_url, ''\), backoffice\.report_cycles\.report_url\)`).
		WithArgs(sqlmock.AnyArg(), "unit_1", "2024-06", issuedAt, "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = ds.MarkReportIssued(context.Background(), "unit_1", "2024-06", "", issuedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkEmailSent_EmptyFieldsKeepStoredValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	at := time.Date(2024, 7, 6, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO backoffice.report_cycles[\s\S]*email_status = COALESCE\(NULLIF\(EXCLUDED\.email_status, ''\), backoffice\.report_cycles\.email_status\)[\s\S]*email_message_id = COALESCE\(NULLIF\(EXCLUDED\.email_message_id, ''\), backoffice\.report_cycles\.email_message_id\)`).
		WithArgs(sqlmock.AnyArg(), "unit_1", "2024-06", "SENT", "", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = ds.MarkEmailSent(context.Background(), "unit_1", "2024-06", "SENT", "", at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaymentSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	at := time.Date(2024, 7, 3, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO backoffice.report_cycles").
		WithArgs(sqlmock.AnyArg(), "unit_1", "2024-06", "PAID", "bank-ref-9", 1500.00, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = ds.MarkPaymentSent(context.Background(), "unit_1", "2024-06", "PAID", "bank-ref-9", 1500.00, at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaymentRequested(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO backoffice.report_cycles").
		WithArgs(sqlmock.AnyArg(), "unit_1", "2024-06", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = ds.MarkPaymentRequested(context.Background(), "unit_1", "2024-06", at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
