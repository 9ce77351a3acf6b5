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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/owners2/backoffice/config"
	"github.com/owners2/backoffice/database/mocks"
	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

func newTestBackoffice() (*Backoffice, *mocks.MockDataSource) {
	config.MockConfig(&config.Configuration{
		ProjectName: "Backoffice Test",
		DataSource:  config.DataSourceConfig{Dns: "test-dns"},
	})
	mockDS := new(mocks.MockDataSource)
	return &Backoffice{datasource: mockDS}, mockDS
}

func TestReviewPayouts_BestMatchWithinTolerance(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	payoutDate := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	payout := &model.Payout{
		PayoutID:   "po_1",
		UnitID:     "unit_1",
		Amount:     1234.56,
		PayoutDate: &payoutDate,
		Method:     "Transfer to SASANERO COORDINADORA DE SERVICIOS SC",
		Reference:  "airbnb june",
	}

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	mockDS.On("GetPayoutsInWindow", mock.Anything, from, to, 9, false).
		Return([]*model.Payout{payout}, nil)
	mockDS.On("GetBankEntriesInWindow", mock.Anything, "espiral",
		payoutDate.AddDate(0, 0, -14), payoutDate.AddDate(0, 0, 10), true).
		Return([]model.BankEntry{
			{EntryID: "be_near", FechaOn: payoutDate.AddDate(0, 0, 1), Deposit: 1234.50, MovementType: model.AbonoMovement},
			{EntryID: "be_far", FechaOn: payoutDate.AddDate(0, 0, 8), Deposit: 900.00, MovementType: model.AbonoMovement},
		}, nil)

	views, err := service.ReviewPayouts(ctx, from, to, false)
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, model.MethodEspiral, views[0].Method)
	assert.NotNil(t, views[0].SentDate)
	assert.NotNil(t, views[0].Best)
	assert.Equal(t, "be_near", views[0].Best.EntryID)
	assert.True(t, views[0].Best.WithinTolerance)
	mockDS.AssertExpectations(t)
}

func TestReviewPayouts_IneligibleMethodSkipsBankLookup(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	payoutDate := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	payout := &model.Payout{
		PayoutID:   "po_cash",
		Amount:     500,
		PayoutDate: &payoutDate,
		Method:     "cash pickup",
	}

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	mockDS.On("GetPayoutsInWindow", mock.Anything, from, to, 9, false).
		Return([]*model.Payout{payout}, nil)

	views, err := service.ReviewPayouts(ctx, from, to, false)
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, model.MethodOther, views[0].Method)
	assert.Nil(t, views[0].Best)
	mockDS.AssertExpectations(t)
}

func TestReviewPayouts_NoDatesNoCandidate(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	payout := &model.Payout{PayoutID: "po_dateless", Amount: 500, Method: "espiral"}

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	mockDS.On("GetPayoutsInWindow", mock.Anything, from, to, 9, false).
		Return([]*model.Payout{payout}, nil)

	views, err := service.ReviewPayouts(ctx, from, to, false)
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Nil(t, views[0].SentDate)
	assert.Nil(t, views[0].Best)
	mockDS.AssertExpectations(t)
}

func TestConfirmPayoutMatch(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetPayoutByID", mock.Anything, "po_1").
		Return(&model.Payout{PayoutID: "po_1", Method: "espiral"}, nil)
	mockDS.On("GetBankEntryByID", mock.Anything, "be_1").
		Return(&model.BankEntry{EntryID: "be_1", MovementType: model.AbonoMovement}, nil)
	mockDS.On("LinkPayoutToEntry", mock.Anything, "po_1", "be_1", "ana").
		Return(nil)

	err := service.ConfirmPayoutMatch(ctx, "po_1", "be_1", "ana")
	assert.NoError(t, err)
	mockDS.AssertExpectations(t)
}

func TestConfirmPayoutMatch_RejectsIneligibleMethod(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetPayoutByID", mock.Anything, "po_paypal").
		Return(&model.Payout{PayoutID: "po_paypal", Method: "PayPal"}, nil)
	mockDS.On("GetBankEntryByID", mock.Anything, "be_1").
		Return(&model.BankEntry{EntryID: "be_1", MovementType: model.AbonoMovement}, nil)

	err := service.ConfirmPayoutMatch(ctx, "po_paypal", "be_1", "ana")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrBadRequest, apiErr.Code)
	mockDS.AssertNotCalled(t, "LinkPayoutToEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockDS.AssertExpectations(t)
}

func TestConfirmPayoutMatch_EspiralRequiresAbonoMovement(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetPayoutByID", mock.Anything, "po_1").
		Return(&model.Payout{PayoutID: "po_1", Method: "espiral"}, nil)
	mockDS.On("GetBankEntryByID", mock.Anything, "be_cargo").
		Return(&model.BankEntry{EntryID: "be_cargo", MovementType: "Cargo"}, nil)

	err := service.ConfirmPayoutMatch(ctx, "po_1", "be_cargo", "ana")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrBadRequest, apiErr.Code)
	mockDS.AssertNotCalled(t, "LinkPayoutToEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockDS.AssertExpectations(t)
}

func TestConfirmPayoutMatch_SantanderAcceptsAnyMovement(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetPayoutByID", mock.Anything, "po_s").
		Return(&model.Payout{PayoutID: "po_s", Method: "Transfer to ANTONIO PEDRO"}, nil)
	mockDS.On("GetBankEntryByID", mock.Anything, "be_s").
		Return(&model.BankEntry{EntryID: "be_s"}, nil)
	mockDS.On("LinkPayoutToEntry", mock.Anything, "po_s", "be_s", "ana").
		Return(nil)

	err := service.ConfirmPayoutMatch(ctx, "po_s", "be_s", "ana")
	assert.NoError(t, err)
	mockDS.AssertExpectations(t)
}

func TestConfirmPayoutMatch_PayoutMissing(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetPayoutByID", mock.Anything, "po_missing").
		Return(nil, apierror.NewAPIError(apierror.ErrNotFound, "Payout not found", nil))

	err := service.ConfirmPayoutMatch(ctx, "po_missing", "be_1", "ana")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
	mockDS.AssertExpectations(t)
}

func TestUnmatchedDeposits_RanksAndCapsCandidates(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	fecha := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	deposit := model.BankEntry{EntryID: "be_1", Source: "espiral", FechaOn: fecha, Deposit: 800.00, MovementType: model.AbonoMovement}

	day := func(d int) *time.Time {
		t := fecha.AddDate(0, 0, d)
		return &t
	}
	payouts := []*model.Payout{
		{PayoutID: "po_close", Amount: 799.50, PayoutDate: day(-1), Method: "espiral"},
		{PayoutID: "po_far", Amount: 1500.00, PayoutDate: day(-2), Method: "espiral"},
		{PayoutID: "po_other_bank", Amount: 800.00, PayoutDate: day(0), Method: "santander"},
	}

	mockDS.On("GetUnmatchedDeposits", mock.Anything, "espiral", from, to).
		Return([]model.BankEntry{deposit}, nil)
	mockDS.On("GetPayoutsInWindow", mock.Anything, mock.Anything, mock.Anything, 9, false).
		Return(payouts, nil)

	deposits, err := service.UnmatchedDeposits(ctx, "espiral", from, to)
	assert.NoError(t, err)
	assert.Len(t, deposits, 1)

	candidates := deposits[0].Candidates
	assert.Len(t, candidates, 2)
	assert.Equal(t, "po_close", candidates[0].PayoutID)
	assert.Equal(t, 0.50, candidates[0].Diff)
	assert.Equal(t, "po_far", candidates[1].PayoutID)
	mockDS.AssertExpectations(t)
}
