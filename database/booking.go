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

func scanBooking(row interface{ Scan(...interface{}) error }) (*model.Booking, error) {
	b := model.Booking{}
	var confirmationCode, guestName, source, status, paidMarkedBy sql.NullString
	var checkInDate, checkOutDate sql.NullTime

	err := row.Scan(&b.BookingID, &confirmationCode, &b.UnitID, &guestName, &source, &status,
		&checkInDate, &checkOutDate, &b.ExpectedPayout, &b.IsPaid, &paidMarkedBy, &b.PaidMarkedAt, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.ConfirmationCode = confirmationCode.String
	b.GuestName = guestName.String
	b.Source = source.String
	b.Status = status.String
	b.PaidMarkedBy = paidMarkedBy.String
	if checkInDate.Valid {
		b.CheckIn = checkInDate.Time.Format("2006-01-02")
	}
	if checkOutDate.Valid {
		b.CheckOut = checkOutDate.Time.Format("2006-01-02")
	}
	return &b, nil
}

const bookingColumns = `booking_id, confirmation_code, unit_id, guest_name, source, status, check_in, check_out, expected_payout, is_paid, paid_marked_by, paid_marked_at, created_at`

// GetBookingByID retrieves a booking by its id.
func (d Datasource) GetBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM backoffice.bookings
		WHERE booking_id = $1
	`, id)

	booking, err := scanBooking(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Booking with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve booking", err)
	}

	return booking, nil
}

// GetBookingByConfirmationCode retrieves a booking by its channel confirmation
// code. Codes are unique per channel export.
func (d Datasource) GetBookingByConfirmationCode(ctx context.Context, code string) (*model.Booking, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM backoffice.bookings
		WHERE confirmation_code = $1
	`, code)

	booking, err := scanBooking(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Booking with confirmation code '%s' not found", code), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve booking", err)
	}

	return booking, nil
}

// GetUnpaidAirbnbBookings retrieves unpaid, non-cancelled Airbnb bookings with
// check-in inside [from, to].
func (d Datasource) GetUnpaidAirbnbBookings(ctx context.Context, from, to time.Time) ([]model.Booking, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM backoffice.bookings
		WHERE source = $1
		AND is_paid = FALSE
		AND UPPER(COALESCE(status, '')) NOT LIKE '%CANCEL%'
		AND check_in BETWEEN $2 AND $3
		ORDER BY check_in ASC, booking_id ASC
	`, model.SourceAirbnb, from, to)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve bookings", err)
	}
	defer rows.Close()

	bookings := []model.Booking{}

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan booking data", err)
		}
		bookings = append(bookings, *booking)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over bookings", err)
	}

	return bookings, nil
}

// MarkBookingPaid flips is_paid on. The flag is monotonic; marking an already
// paid booking changes nothing and returns false.
func (d Datasource) MarkBookingPaid(ctx context.Context, bookingID, markedBy string) (bool, error) {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE backoffice.bookings
		SET is_paid = TRUE, paid_marked_by = $2, paid_marked_at = $3
		WHERE booking_id = $1 AND is_paid = FALSE
	`, bookingID, markedBy, time.Now())
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update booking", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check booking update", err)
	}
	if affected == 0 {
		// Either the booking does not exist or it is already paid.
		_, err := d.GetBookingByID(ctx, bookingID)
		if err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}
