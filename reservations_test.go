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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wacul/ptr"

	"github.com/owners2/backoffice/database/mocks"
	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

func TestCompareEarningsReport(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetBookingByConfirmationCode", mock.Anything, "HM_MATCH").
		Return(&model.Booking{
			BookingID: "bk_1", ConfirmationCode: "HM_MATCH", UnitID: "unit_1",
			CheckIn: "2024-06-10", CheckOut: "2024-06-15", ExpectedPayout: ptr.Float64(1000),
		}, nil)
	mockDS.On("GetBookingByConfirmationCode", mock.Anything, "HM_DRIFT").
		Return(&model.Booking{
			BookingID: "bk_2", ConfirmationCode: "HM_DRIFT", UnitID: "unit_2",
			CheckIn: "2024-06-20", CheckOut: "2024-06-25", ExpectedPayout: ptr.Float64(800),
		}, nil)
	mockDS.On("GetBookingByConfirmationCode", mock.Anything, "HM_GHOST").
		Return(nil, apierror.NewAPIError(apierror.ErrNotFound, "Booking not found", nil))
	mockDS.On("MarkBookingPaid", mock.Anything, "bk_1", "reconciliation").Return(true, nil)

	rows := []model.ReportedReservation{
		{ConfirmationCode: "HM_MATCH", CheckIn: "2024-06-10", CheckOut: "2024-06-15", Payout: ptr.Float64(1000.40)},
		{ConfirmationCode: "HM_DRIFT", CheckIn: "2024-06-20", CheckOut: "2024-06-25", Payout: ptr.Float64(850)},
		{ConfirmationCode: "HM_GHOST", GuestName: "Unknown guest", CheckIn: "2024-06-01", CheckOut: "2024-06-03"},
	}

	summary, err := service.CompareEarningsReport(ctx, rows)
	assert.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Mismatched)
	assert.Equal(t, 1, summary.Unknown)

	// Within the 1.00 tolerance, a 0.40 drift still matches; the matched row
	// is settled as paid and left out of the diff list.
	assert.Len(t, summary.Diffs, 2)

	drift := summary.Diffs[0]
	assert.Equal(t, "HM_DRIFT", drift.ConfirmationCode)
	assert.True(t, drift.PayoutMismatch)
	assert.Equal(t, 50.00, drift.Diff)
	assert.False(t, drift.IsMatched)

	ghost := summary.Diffs[1]
	assert.False(t, ghost.InSystem)
	assert.True(t, ghost.StartMismatch)
	assert.True(t, ghost.PayoutMismatch)
	mockDS.AssertExpectations(t)
}

func TestCompareEarningsReport_PropagatesLookupFailure(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetBookingByConfirmationCode", mock.Anything, "HM_BOOM").
		Return(nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve booking", nil))

	_, err := service.CompareEarningsReport(ctx, []model.ReportedReservation{{ConfirmationCode: "HM_BOOM"}})
	assert.Error(t, err)
	mockDS.AssertExpectations(t)
}

func TestMarkBookingPaidPassthrough(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	service := &Backoffice{datasource: mockDS}

	mockDS.On("MarkBookingPaid", mock.Anything, "bk_1", "ana").Return(true, nil)

	changed, err := service.MarkBookingPaid(context.Background(), "bk_1", "ana")
	assert.NoError(t, err)
	assert.True(t, changed)
	mockDS.AssertExpectations(t)
}
