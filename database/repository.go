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
	"time"

	"github.com/owners2/backoffice/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	unit        // Interface for unit-related operations
	payout      // Interface for payout and bank entry reconciliation operations
	booking     // Interface for booking-related operations
	slice       // Interface for booking slice operations
	transaction // Interface for unit transaction operations
	ledger      // Interface for ledger-related operations
	reportCycle // Interface for report cycle operations
}

// unit defines methods for handling managed units.
type unit interface {
	CreateUnit(ctx context.Context, u model.Unit) (model.Unit, error) // Creates a new unit
	GetUnitByID(ctx context.Context, id string) (*model.Unit, error)  // Retrieves a unit by ID
	GetActiveUnits(ctx context.Context) ([]model.Unit, error)         // Retrieves all active units
}

// payout defines methods for payout to bank entry reconciliation.
type payout interface {
	RecordPayout(ctx context.Context, p *model.Payout) (*model.Payout, error)                                                          // Records an imported channel payout
	GetPayoutByID(ctx context.Context, id string) (*model.Payout, error)                                                               // Retrieves a payout by ID
	GetPayoutsInWindow(ctx context.Context, from, to time.Time, sentOffsetDays int, includeChecked bool) ([]*model.Payout, error)      // Retrieves payouts whose expected sent date falls in the window
	RecordBankEntry(ctx context.Context, e *model.BankEntry) (*model.BankEntry, error)                                                 // Records an imported bank statement row
	GetBankEntryByID(ctx context.Context, id string) (*model.BankEntry, error)                                                         // Retrieves a bank entry by ID
	GetBankEntriesInWindow(ctx context.Context, source string, from, to time.Time, onlyUnlinked bool) ([]model.BankEntry, error)       // Retrieves statement rows posted inside the window
	GetUnmatchedDeposits(ctx context.Context, source string, from, to time.Time) ([]model.BankEntry, error)                            // Retrieves credits with no linked payout
	LinkPayoutToEntry(ctx context.Context, payoutID, entryID, checkedBy string) error                                                  // Marks a payout checked against a bank entry
}

// booking defines methods for handling reservations.
type booking interface {
	GetBookingByID(ctx context.Context, id string) (*model.Booking, error)                                   // Retrieves a booking by ID
	GetBookingByConfirmationCode(ctx context.Context, code string) (*model.Booking, error)                   // Retrieves a booking by its channel confirmation code
	GetUnpaidAirbnbBookings(ctx context.Context, from, to time.Time) ([]model.Booking, error)                // Retrieves unpaid, non-cancelled Airbnb bookings with check-in in range
	MarkBookingPaid(ctx context.Context, bookingID, markedBy string) (bool, error)                           // Flips is_paid on; reports whether a row changed
}

// slice defines methods for per-month booking slices.
type slice interface {
	GetSlicesForMonth(ctx context.Context, unitID, month string) ([]model.BookingSlice, error) // Retrieves a unit's booking slices for a report month
}

// transaction defines methods for unit expenses, credits and housekeeping charges.
type transaction interface {
	GetUnitTransactions(ctx context.Context, unitID, month string, kind model.TransactionKind) ([]model.UnitTransaction, error) // Retrieves a unit's transactions of one kind for a month
	GetExpectedPaymentRules(ctx context.Context, unitID string) ([]model.ExpectedPaymentRule, error)                            // Retrieves the unit's recurring service payment rules
}

// ledger defines methods for the unit running-balance ledger.
type ledger interface {
	GetLedgerEntriesBefore(ctx context.Context, unitID string, before time.Time, limit int) ([]model.LedgerEntry, error) // Retrieves the newest entries effective before an instant, newest first
	GetLedgerEntriesForMonth(ctx context.Context, unitID string, from, to time.Time) ([]model.LedgerEntry, error)        // Retrieves entries effective inside [from, to), oldest first
	GetLedgerEntryByReference(ctx context.Context, unitID, reference string) (*model.LedgerEntry, error)                 // Retrieves an entry by its unique reference
	UpsertMonthReport(ctx context.Context, entry *model.LedgerEntry) (*model.LedgerEntry, bool, error)                   // Inserts or updates the month report posting under a row lock; reports whether an existing row was replaced
	RecordPaymentEntry(ctx context.Context, entry *model.LedgerEntry) (*model.LedgerEntry, error)                        // Appends a payment entry maintaining the running balance
}

// reportCycle defines methods for the month closing tracker.
type reportCycle interface {
	GetReportCycle(ctx context.Context, unitID, month string) (*model.ReportCycle, error)                            // Retrieves the cycle row for a unit and month
	GetReportCyclesForMonth(ctx context.Context, month string) ([]model.ReportCycle, error)                          // Retrieves all cycle rows for a month
	MarkReportIssued(ctx context.Context, unitID, month, reportURL string, issuedAt time.Time) error                 // Upserts the report stage
	MarkPaymentSent(ctx context.Context, unitID, month, status, ref string, amount float64, at time.Time) error      // Upserts the payment stage
	MarkEmailSent(ctx context.Context, unitID, month, status, messageID string, at time.Time) error                  // Upserts the email stage
	MarkPaymentRequested(ctx context.Context, unitID, month string, at time.Time) error                              // Flags the cycle as queued for payment
}
