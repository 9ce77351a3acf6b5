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
	"github.com/owners2/backoffice/model"
)

var bookingTestColumns = []string{"booking_id", "confirmation_code", "unit_id", "guest_name", "source", "status", "check_in", "check_out", "expected_payout", "is_paid", "paid_marked_by", "paid_marked_at", "created_at"}

func TestGetBookingByConfirmationCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	checkIn := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(bookingTestColumns).
		AddRow("bk_1", "HMABC123", "unit_1", "Jordan", model.SourceAirbnb, "confirmed", checkIn, checkOut, 1234.56, false, nil, nil, time.Now())

	mock.ExpectQuery("SELECT .* FROM backoffice.bookings").
		WithArgs("HMABC123").
		WillReturnRows(rows)

	booking, err := ds.GetBookingByConfirmationCode(context.Background(), "HMABC123")
	assert.NoError(t, err)
	assert.Equal(t, "bk_1", booking.BookingID)
	assert.Equal(t, "2024-06-10", booking.CheckIn)
	assert.Equal(t, "2024-06-15", booking.CheckOut)
	assert.NotNil(t, booking.ExpectedPayout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByConfirmationCode_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM backoffice.bookings").
		WithArgs("HMNOPE").
		WillReturnError(sql.ErrNoRows)

	_, err = ds.GetBookingByConfirmationCode(context.Background(), "HMNOPE")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestMarkBookingPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE backoffice.bookings").
		WithArgs("bk_1", "ana", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	changed, err := ds.MarkBookingPaid(context.Background(), "bk_1", "ana")
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkBookingPaid_AlreadyPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE backoffice.bookings").
		WithArgs("bk_1", "ana", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// The update touches nothing, so the row is fetched to tell "already
	// paid" apart from "missing".
	paidAt := time.Now()
	rows := sqlmock.NewRows(bookingTestColumns).
		AddRow("bk_1", "HMABC123", "unit_1", "Jordan", model.SourceAirbnb, "confirmed", nil, nil, nil, true, "ana", paidAt, time.Now())
	mock.ExpectQuery("SELECT .* FROM backoffice.bookings").
		WithArgs("bk_1").
		WillReturnRows(rows)

	changed, err := ds.MarkBookingPaid(context.Background(), "bk_1", "ana")
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkBookingPaid_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE backoffice.bookings").
		WithArgs("bk_missing", "ana", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .* FROM backoffice.bookings").
		WithArgs("bk_missing").
		WillReturnError(sql.ErrNoRows)

	_, err = ds.MarkBookingPaid(context.Background(), "bk_missing", "ana")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetUnpaidAirbnbBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(bookingTestColumns).
		AddRow("bk_1", "HMABC123", "unit_1", "Jordan", model.SourceAirbnb, "confirmed", from.AddDate(0, 0, 9), from.AddDate(0, 0, 14), 1234.56, false, nil, nil, time.Now())

	mock.ExpectQuery("SELECT .* FROM backoffice.bookings").
		WithArgs(model.SourceAirbnb, from, to).
		WillReturnRows(rows)

	bookings, err := ds.GetUnpaidAirbnbBookings(context.Background(), from, to)
	assert.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.False(t, bookings[0].IsPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
