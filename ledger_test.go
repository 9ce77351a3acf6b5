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

	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

func TestPostMonthReport_PostsClosingBalance(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetUnitByID", mock.Anything, "unit_1").
		Return(&model.Unit{UnitID: "unit_1", PaymentType: model.PaymentTypeOwners2}, nil)
	mockDS.On("GetSlicesForMonth", mock.Anything, "unit_1", "2024-06").
		Return([]model.BookingSlice{
			{SliceID: "sl_1", Source: model.SourceAirbnb, Status: "confirmed", PayoutInMonth: 1000, OwnerPayout: 800, NightsInMonth: 5},
		}, nil)
	mockDS.On("GetUnitTransactions", mock.Anything, "unit_1", "2024-06", mock.Anything).
		Return([]model.UnitTransaction{}, nil)
	mockDS.On("GetLedgerEntriesBefore", mock.Anything, "unit_1", mock.Anything, 2).
		Return([]model.LedgerEntry{{LedgerID: "ldg_prev", BalanceAfter: 250}}, nil)
	mockDS.On("GetExpectedPaymentRules", mock.Anything, "unit_1").
		Return([]model.ExpectedPaymentRule{}, nil)

	mockDS.On("UpsertMonthReport", mock.Anything, mock.MatchedBy(func(e *model.LedgerEntry) bool {
		return e.UnitID == "unit_1" &&
			e.EntryType == model.EntryTypeMonthReport &&
			e.Reference == "Client Report 2406" &&
			e.Amount == 800.00 &&
			e.BalanceAfter == 1050.00 &&
			e.TxnDate != nil
	})).Return(&model.LedgerEntry{ID: 5, LedgerID: "ldg_new", Reference: "Client Report 2406"}, false, nil)
	mockDS.On("MarkReportIssued", mock.Anything, "unit_1", "2024-06", "", mock.Anything).
		Return(nil)

	entry, replaced, err := service.PostMonthReport(ctx, "unit_1", "2024-06", true, "reports")
	assert.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, "ldg_new", entry.LedgerID)
	mockDS.AssertExpectations(t)
}

func TestPostMonthReport_KeepsExistingWhenReplaceDeclined(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetLedgerEntryByReference", mock.Anything, "unit_1", "Client Report 2406").
		Return(&model.LedgerEntry{ID: 5, LedgerID: "ldg_old", Reference: "Client Report 2406"}, nil)

	entry, replaced, err := service.PostMonthReport(ctx, "unit_1", "2024-06", false, "reports")
	assert.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, "ldg_old", entry.LedgerID)
	mockDS.AssertNotCalled(t, "UpsertMonthReport", mock.Anything, mock.Anything)
	mockDS.AssertExpectations(t)
}

func TestRecordReportPayment_PostsDebit(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetUnitByID", mock.Anything, "unit_1").
		Return(&model.Unit{UnitID: "unit_1", PaymentType: model.PaymentTypeOwners2}, nil)
	mockDS.On("RecordPaymentEntry", mock.Anything, mock.MatchedBy(func(e *model.LedgerEntry) bool {
		return e.EntryType == model.EntryTypeO2Payment && e.Amount == -1500.00 && e.Reference == "bank-ref-1"
	})).Return(&model.LedgerEntry{ID: 8, LedgerID: "ldg_pay", Amount: -1500.00}, nil)
	mockDS.On("MarkPaymentSent", mock.Anything, "unit_1", "2024-06", "PAID", "bank-ref-1", 1500.00, mock.Anything).
		Return(nil)

	entry, err := service.RecordReportPayment(ctx, "unit_1", "2024-06", 1500.00, "bank-ref-1", "ana")
	assert.NoError(t, err)
	assert.Equal(t, -1500.00, entry.Amount)
	mockDS.AssertExpectations(t)
}

func TestRecordReportPayment_ClientUnitUsesClientEntryType(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetUnitByID", mock.Anything, "unit_c").
		Return(&model.Unit{UnitID: "unit_c", PaymentType: model.PaymentTypeClient}, nil)
	mockDS.On("RecordPaymentEntry", mock.Anything, mock.MatchedBy(func(e *model.LedgerEntry) bool {
		return e.EntryType == model.EntryTypeClientPayment
	})).Return(&model.LedgerEntry{ID: 9}, nil)
	mockDS.On("MarkPaymentSent", mock.Anything, "unit_c", "2024-06", "PAID", "ref", 900.00, mock.Anything).
		Return(nil)

	_, err := service.RecordReportPayment(ctx, "unit_c", "2024-06", 900.00, "ref", "ana")
	assert.NoError(t, err)
	mockDS.AssertExpectations(t)
}

func TestRecordReportPayment_RejectsNonPositiveAmount(t *testing.T) {
	service, _ := newTestBackoffice()

	_, err := service.RecordReportPayment(context.Background(), "unit_1", "2024-06", -100, "ref", "ana")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrBadRequest, apiErr.Code)
}

func TestRecordManualEntry_RejectsZeroAmount(t *testing.T) {
	service, _ := newTestBackoffice()

	_, err := service.RecordManualEntry(context.Background(), "unit_1", "adjustment", "", 0, nil, "ana")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrBadRequest, apiErr.Code)
}

func TestUnitLedger_VerifiesChain(t *testing.T) {
	service, mockDS := newTestBackoffice()
	ctx := context.Background()

	mockDS.On("GetUnitByID", mock.Anything, "unit_1").
		Return(&model.Unit{UnitID: "unit_1"}, nil)
	mockDS.On("GetLedgerEntriesBefore", mock.Anything, "unit_1", mock.Anything, 2).
		Return([]model.LedgerEntry{{LedgerID: "ldg_0", BalanceAfter: 100}}, nil)
	mockDS.On("GetLedgerEntriesForMonth", mock.Anything, "unit_1", mock.Anything, mock.Anything).
		Return([]model.LedgerEntry{
			{LedgerID: "ldg_1", Amount: 50, BalanceAfter: 150},
			{LedgerID: "ldg_2", Amount: -30, BalanceAfter: 500}, // balance does not follow
		}, nil)

	view, err := service.UnitLedger(ctx, "unit_1", "2024-06")
	assert.NoError(t, err)
	assert.Equal(t, 100.00, view.Opening)
	assert.Equal(t, 500.00, view.Closing)
	assert.True(t, view.ChainBroken)
	assert.Equal(t, "ldg_2", view.BrokenAt)
	mockDS.AssertExpectations(t)
}
