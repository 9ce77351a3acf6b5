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

// GetSlicesForMonth retrieves a unit's booking slices for a report month.
// Rows come back unfiltered; statement filtering is the caller's business.
func (d Datasource) GetSlicesForMonth(ctx context.Context, unitID, month string) ([]model.BookingSlice, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT slice_id, booking_id, unit_id, month, guest_name, source, status, check_in, check_out,
			nights_in_month, payout_in_month, owner_payout, o2_commission, cleaning_fee, room_fee
		FROM backoffice.booking_slices
		WHERE unit_id = $1 AND month = $2
		ORDER BY check_in ASC NULLS LAST, slice_id ASC
	`, unitID, month)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve booking slices", err)
	}
	defer rows.Close()

	slices := []model.BookingSlice{}

	for rows.Next() {
		s := model.BookingSlice{}
		var guestName, source, status sql.NullString
		var checkIn, checkOut sql.NullTime
		err = rows.Scan(&s.SliceID, &s.BookingID, &s.UnitID, &s.Month, &guestName, &source, &status,
			&checkIn, &checkOut, &s.NightsInMonth, &s.PayoutInMonth, &s.OwnerPayout,
			&s.O2Commission, &s.CleaningFee, &s.RoomFee)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan booking slice data", err)
		}
		s.GuestName = guestName.String
		s.Source = source.String
		s.Status = status.String
		if checkIn.Valid {
			s.CheckIn = checkIn.Time.Format("2006-01-02")
		}
		if checkOut.Valid {
			s.CheckOut = checkOut.Time.Format("2006-01-02")
		}
		slices = append(slices, s)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over booking slices", err)
	}

	return slices, nil
}
