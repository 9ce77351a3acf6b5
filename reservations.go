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
	"time"

	"github.com/owners2/backoffice/config"
	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

// autoPaidMarker attributes the paid flag flipped by a clean comparison run.
const autoPaidMarker = "reconciliation"

// EarningsReportSummary wraps a reservation comparison run with its headline
// counts. Diffs carries only the exception rows; fully matched reservations
// are counted and settled, not listed.
type EarningsReportSummary struct {
	Total      int                     `json:"total"`
	Matched    int                     `json:"matched"`
	Mismatched int                     `json:"mismatched"`
	Unknown    int                     `json:"unknown"`
	Diffs      []model.ReservationDiff `json:"diffs"`
}

// CompareEarningsReport diffs the rows of a channel earnings report against
// the reservations the system knows. Rows whose confirmation code is unknown
// come back flagged as not in the system; any other lookup failure aborts the
// run. A row that matches on dates and payout settles its booking as paid and
// drops out of the diff list.
func (b *Backoffice) CompareEarningsReport(ctx context.Context, rows []model.ReportedReservation) (*EarningsReportSummary, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	tolerance := cnf.Reconciliation.MoneyTolerance

	summary := &EarningsReportSummary{
		Total: len(rows),
		Diffs: make([]model.ReservationDiff, 0, len(rows)),
	}

	for _, row := range rows {
		booking, err := b.datasource.GetBookingByConfirmationCode(ctx, row.ConfirmationCode)
		if err != nil {
			apiErr, ok := err.(apierror.APIError)
			if !ok || apiErr.Code != apierror.ErrNotFound {
				return nil, err
			}
			booking = nil
		}

		diff := model.CompareReservation(booking, row, tolerance)
		switch {
		case !diff.InSystem:
			summary.Unknown++
		case diff.IsMatched:
			summary.Matched++
			if !booking.IsPaid {
				if _, err := b.datasource.MarkBookingPaid(ctx, booking.BookingID, autoPaidMarker); err != nil {
					return nil, err
				}
			}
			continue
		default:
			summary.Mismatched++
		}
		summary.Diffs = append(summary.Diffs, diff)
	}

	return summary, nil
}

// UnpaidBookings lists unpaid, non-cancelled Airbnb bookings with check-in
// inside [from, to].
func (b *Backoffice) UnpaidBookings(ctx context.Context, from, to time.Time) ([]model.Booking, error) {
	return b.datasource.GetUnpaidAirbnbBookings(ctx, from, to)
}

// MarkBookingPaid flips a booking's paid flag. Marking an already paid
// booking reports false without touching the row.
func (b *Backoffice) MarkBookingPaid(ctx context.Context, bookingID, markedBy string) (bool, error) {
	return b.datasource.MarkBookingPaid(ctx, bookingID, markedBy)
}
