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
	"fmt"
	"time"

	"github.com/owners2/backoffice/config"
	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

// PostMonthReport settles a unit's monthly statement into the ledger. The
// posting is keyed by its "Client Report YYMM" reference, so regenerating a
// statement replaces the previous posting for that month instead of stacking
// a second one. Callers that pass replace=false get the existing posting back
// untouched when one is already there. It returns the posted entry and
// whether an older posting was replaced.
func (b *Backoffice) PostMonthReport(ctx context.Context, unitID, ym string, replace bool, createdBy string) (*model.LedgerEntry, bool, error) {
	reference, err := model.ReportReference(ym)
	if err != nil {
		return nil, false, err
	}

	if !replace {
		existing, err := b.datasource.GetLedgerEntryByReference(ctx, unitID, reference)
		if err != nil {
			apiErr, ok := err.(apierror.APIError)
			if !ok || apiErr.Code != apierror.ErrNotFound {
				return nil, false, err
			}
		} else {
			return existing, false, nil
		}
	}

	statement, err := b.BuildMonthlyStatement(ctx, unitID, ym)
	if err != nil {
		return nil, false, err
	}
	nextMonth, err := model.NextMonthStart(ym)
	if err != nil {
		return nil, false, err
	}
	// The posting dates to the last instant of the report month so it sorts
	// after every in-month row and before anything in the next month.
	txnDate := nextMonth.Add(-time.Second)

	entry := &model.LedgerEntry{
		UnitID:       unitID,
		EntryType:    model.EntryTypeMonthReport,
		Description:  fmt.Sprintf("Month report %s", ym),
		Reference:    reference,
		Amount:       statement.Monthly,
		BalanceAfter: statement.Closing,
		TxnDate:      &txnDate,
		CreatedBy:    createdBy,
	}

	saved, replaced, err := b.datasource.UpsertMonthReport(ctx, entry)
	if err != nil {
		return nil, false, err
	}

	if err := b.datasource.MarkReportIssued(ctx, unitID, ym, "", time.Now()); err != nil {
		return nil, false, err
	}

	return saved, replaced, nil
}

// RecordReportPayment appends a payment against a month report to the unit's
// ledger and moves the month's closing cycle to the payment stage. The amount
// comes in positive and is posted as a debit.
func (b *Backoffice) RecordReportPayment(ctx context.Context, unitID, ym string, amount float64, paymentRef, createdBy string) (*model.LedgerEntry, error) {
	if amount <= 0 {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Payment amount must be positive", nil)
	}

	unit, err := b.datasource.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	entryType := model.EntryTypeO2Payment
	if unit.SettlementType() == model.PaymentTypeClient {
		entryType = model.EntryTypeClientPayment
	}

	entry := &model.LedgerEntry{
		UnitID:      unitID,
		EntryType:   entryType,
		Description: fmt.Sprintf("Report payment %s", ym),
		Reference:   paymentRef,
		Amount:      -amount,
		CreatedBy:   createdBy,
	}
	saved, err := b.datasource.RecordPaymentEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	if err := b.datasource.MarkPaymentSent(ctx, unitID, ym, "PAID", paymentRef, amount, time.Now()); err != nil {
		return nil, err
	}

	return saved, nil
}

// RecordManualEntry appends a free-form correction to the unit's ledger. The
// amount is signed; positive entries credit the owner.
func (b *Backoffice) RecordManualEntry(ctx context.Context, unitID, description, reference string, amount float64, txnDate *time.Time, createdBy string) (*model.LedgerEntry, error) {
	if amount == 0 {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Manual entry amount cannot be zero", nil)
	}
	if _, err := b.datasource.GetUnitByID(ctx, unitID); err != nil {
		return nil, err
	}

	entry := &model.LedgerEntry{
		UnitID:      unitID,
		EntryType:   model.EntryTypeManual,
		Description: description,
		Reference:   reference,
		Amount:      amount,
		TxnDate:     txnDate,
		CreatedBy:   createdBy,
	}
	return b.datasource.RecordPaymentEntry(ctx, entry)
}

// LedgerView is one month of a unit's ledger with its opening balance and
// consistency check.
type LedgerView struct {
	UnitID  string              `json:"unit_id"`
	Month   string              `json:"month"`
	Opening float64             `json:"opening"`
	Closing float64             `json:"closing"`
	Entries []model.LedgerEntry `json:"entries"`

	ChainBroken bool   `json:"chain_broken"`
	BrokenAt    string `json:"broken_at,omitempty"`
}

// UnitLedger reads one month of a unit's ledger and verifies that every
// balance follows from the previous one. A broken chain is reported, not
// repaired.
func (b *Backoffice) UnitLedger(ctx context.Context, unitID, ym string) (*LedgerView, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	if _, err := b.datasource.GetUnitByID(ctx, unitID); err != nil {
		return nil, err
	}

	monthStart, err := model.MonthStart(ym)
	if err != nil {
		return nil, err
	}
	nextMonth, err := model.NextMonthStart(ym)
	if err != nil {
		return nil, err
	}

	history, err := b.datasource.GetLedgerEntriesBefore(ctx, unitID, monthStart, openingLookback)
	if err != nil {
		return nil, err
	}
	opening := model.OpeningBalance(ym, history)

	entries, err := b.datasource.GetLedgerEntriesForMonth(ctx, unitID, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	view := &LedgerView{
		UnitID:  unitID,
		Month:   ym,
		Opening: model.Round2(opening),
		Closing: model.Round2(opening),
		Entries: entries,
	}
	if len(entries) > 0 {
		view.Closing = entries[len(entries)-1].BalanceAfter
	}

	if bad, broken := model.VerifyLedgerChain(opening, entries, cnf.Reconciliation.MoneyTolerance); broken {
		view.ChainBroken = true
		view.BrokenAt = bad.LedgerID
	}

	return view, nil
}
