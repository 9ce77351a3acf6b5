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
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/owners2/backoffice/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Unit methods

func (m *MockDataSource) CreateUnit(ctx context.Context, u model.Unit) (model.Unit, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.Unit), args.Error(1)
}

func (m *MockDataSource) GetUnitByID(ctx context.Context, id string) (*model.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Unit), args.Error(1)
}

func (m *MockDataSource) GetActiveUnits(ctx context.Context) ([]model.Unit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Unit), args.Error(1)
}

// Payout and bank entry methods

func (m *MockDataSource) RecordPayout(ctx context.Context, p *model.Payout) (*model.Payout, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payout), args.Error(1)
}

func (m *MockDataSource) GetPayoutByID(ctx context.Context, id string) (*model.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payout), args.Error(1)
}

func (m *MockDataSource) GetPayoutsInWindow(ctx context.Context, from, to time.Time, sentOffsetDays int, includeChecked bool) ([]*model.Payout, error) {
	args := m.Called(ctx, from, to, sentOffsetDays, includeChecked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Payout), args.Error(1)
}

func (m *MockDataSource) RecordBankEntry(ctx context.Context, e *model.BankEntry) (*model.BankEntry, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BankEntry), args.Error(1)
}

func (m *MockDataSource) GetBankEntryByID(ctx context.Context, id string) (*model.BankEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BankEntry), args.Error(1)
}

func (m *MockDataSource) GetBankEntriesInWindow(ctx context.Context, source string, from, to time.Time, onlyUnlinked bool) ([]model.BankEntry, error) {
	args := m.Called(ctx, source, from, to, onlyUnlinked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BankEntry), args.Error(1)
}

func (m *MockDataSource) GetUnmatchedDeposits(ctx context.Context, source string, from, to time.Time) ([]model.BankEntry, error) {
	args := m.Called(ctx, source, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BankEntry), args.Error(1)
}

func (m *MockDataSource) LinkPayoutToEntry(ctx context.Context, payoutID, entryID, checkedBy string) error {
	args := m.Called(ctx, payoutID, entryID, checkedBy)
	return args.Error(0)
}

// Booking methods

func (m *MockDataSource) GetBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockDataSource) GetBookingByConfirmationCode(ctx context.Context, code string) (*model.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockDataSource) GetUnpaidAirbnbBookings(ctx context.Context, from, to time.Time) ([]model.Booking, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockDataSource) MarkBookingPaid(ctx context.Context, bookingID, markedBy string) (bool, error) {
	args := m.Called(ctx, bookingID, markedBy)
	return args.Bool(0), args.Error(1)
}

// Booking slice methods

func (m *MockDataSource) GetSlicesForMonth(ctx context.Context, unitID, month string) ([]model.BookingSlice, error) {
	args := m.Called(ctx, unitID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookingSlice), args.Error(1)
}

// Unit transaction methods

func (m *MockDataSource) GetUnitTransactions(ctx context.Context, unitID, month string, kind model.TransactionKind) ([]model.UnitTransaction, error) {
	args := m.Called(ctx, unitID, month, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UnitTransaction), args.Error(1)
}

func (m *MockDataSource) GetExpectedPaymentRules(ctx context.Context, unitID string) ([]model.ExpectedPaymentRule, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExpectedPaymentRule), args.Error(1)
}

// Ledger methods

func (m *MockDataSource) GetLedgerEntriesBefore(ctx context.Context, unitID string, before time.Time, limit int) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, unitID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}

func (m *MockDataSource) GetLedgerEntriesForMonth(ctx context.Context, unitID string, from, to time.Time) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, unitID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}

func (m *MockDataSource) GetLedgerEntryByReference(ctx context.Context, unitID, reference string) (*model.LedgerEntry, error) {
	args := m.Called(ctx, unitID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerEntry), args.Error(1)
}

func (m *MockDataSource) UpsertMonthReport(ctx context.Context, entry *model.LedgerEntry) (*model.LedgerEntry, bool, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.LedgerEntry), args.Bool(1), args.Error(2)
}

func (m *MockDataSource) RecordPaymentEntry(ctx context.Context, entry *model.LedgerEntry) (*model.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerEntry), args.Error(1)
}

// Report cycle methods

func (m *MockDataSource) GetReportCycle(ctx context.Context, unitID, month string) (*model.ReportCycle, error) {
	args := m.Called(ctx, unitID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReportCycle), args.Error(1)
}

func (m *MockDataSource) GetReportCyclesForMonth(ctx context.Context, month string) ([]model.ReportCycle, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReportCycle), args.Error(1)
}

func (m *MockDataSource) MarkReportIssued(ctx context.Context, unitID, month, reportURL string, issuedAt time.Time) error {
	args := m.Called(ctx, unitID, month, reportURL, issuedAt)
	return args.Error(0)
}

func (m *MockDataSource) MarkPaymentSent(ctx context.Context, unitID, month, status, ref string, amount float64, at time.Time) error {
	args := m.Called(ctx, unitID, month, status, ref, amount, at)
	return args.Error(0)
}

func (m *MockDataSource) MarkEmailSent(ctx context.Context, unitID, month, status, messageID string, at time.Time) error {
	args := m.Called(ctx, unitID, month, status, messageID, at)
	return args.Error(0)
}

func (m *MockDataSource) MarkPaymentRequested(ctx context.Context, unitID, month string, at time.Time) error {
	args := m.Called(ctx, unitID, month, at)
	return args.Error(0)
}
