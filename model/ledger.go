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
package model

import (
	"fmt"
	"time"
)

// Ledger entry types. The month report posting is the anchor row each
// statement settles into; payments are recorded against it afterwards.
const (
	EntryTypeMonthReport   = "Month Report"
	EntryTypeO2Payment     = "O2 Report Payment"
	EntryTypeClientPayment = "Client Report Payment"
	EntryTypeManual        = "Manual"
)

// LedgerEntry is one row on a unit's running-balance ledger.
type LedgerEntry struct {
	ID           int64      `json:"id"`
	LedgerID     string     `json:"ledger_id"`
	UnitID       string     `json:"unit_id"`
	EntryType    string     `json:"entry_type"`
	Description  string     `json:"description"`
	Reference    string     `json:"reference"`
	Amount       float64    `json:"amount"`
	BalanceAfter float64    `json:"balance_after"`
	TxnDate      *time.Time `json:"txn_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CreatedBy    string     `json:"created_by,omitempty"`
}

// EffectiveDate is the date the entry sorts by on the ledger: the business
// transaction date when present, otherwise the insertion time.
func (e *LedgerEntry) EffectiveDate() time.Time {
	if e.TxnDate != nil {
		return *e.TxnDate
	}
	return e.CreatedAt
}

// ReportReference builds the ledger reference for a month report posting,
// e.g. "Client Report 2406" for June 2024.
func ReportReference(ym string) (string, error) {
	short, err := MonthShortRef(ym)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Client Report %s", short), nil
}

// IsMonthReportFor reports whether the entry is the month report posting for
// the given report month.
func (e *LedgerEntry) IsMonthReportFor(ym string) bool {
	if e.EntryType != EntryTypeMonthReport {
		return false
	}
	ref, err := ReportReference(ym)
	if err != nil {
		return false
	}
	return e.Reference == ref
}

// OpeningBalance derives a month's opening balance from the last ledger rows
// before the month closes, newest first. The month's own report posting is
// skipped when it is the newest row, so regenerating a statement never reads
// its previous incarnation as the opening. A unit with no ledger history
// opens at zero.
func OpeningBalance(ym string, newestFirst []LedgerEntry) float64 {
	if len(newestFirst) == 0 {
		return 0
	}
	if newestFirst[0].IsMonthReportFor(ym) {
		if len(newestFirst) < 2 {
			return 0
		}
		return newestFirst[1].BalanceAfter
	}
	return newestFirst[0].BalanceAfter
}

// VerifyLedgerChain walks entries oldest-first and reports the first row
// whose balance does not follow from the previous balance plus its amount.
// The bool is false when the chain is consistent.
func VerifyLedgerChain(opening float64, oldestFirst []LedgerEntry, tolerance float64) (LedgerEntry, bool) {
	running := opening
	for _, e := range oldestFirst {
		running += e.Amount
		if IsMoneyMismatch(&running, &e.BalanceAfter, tolerance) {
			return e, true
		}
		running = e.BalanceAfter
	}
	return LedgerEntry{}, false
}
