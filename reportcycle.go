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

	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

// MonthWorkflow builds the closing dashboard for a report month: one row per
// active unit with its stage flags and, when the report was posted, the
// month's closing balance.
func (b *Backoffice) MonthWorkflow(ctx context.Context, ym string) ([]model.UnitWorkflow, error) {
	if _, err := model.ParseMonth(ym); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), err)
	}

	units, err := b.datasource.GetActiveUnits(ctx)
	if err != nil {
		return nil, err
	}
	cycles, err := b.datasource.GetReportCyclesForMonth(ctx, ym)
	if err != nil {
		return nil, err
	}
	byUnit := make(map[string]model.ReportCycle, len(cycles))
	for _, c := range cycles {
		byUnit[c.UnitID] = c
	}

	reference, err := model.ReportReference(ym)
	if err != nil {
		return nil, err
	}

	rows := make([]model.UnitWorkflow, 0, len(units))
	for _, unit := range units {
		cycle, ok := byUnit[unit.UnitID]
		if !ok {
			cycle = model.ReportCycle{UnitID: unit.UnitID, ReportMonth: ym}
		}
		row := model.UnitWorkflow{
			UnitID:      unit.UnitID,
			UnitName:    unit.Name,
			PaymentType: unit.SettlementType(),
			Status:      cycle.Status(),
		}

		posting, err := b.datasource.GetLedgerEntryByReference(ctx, unit.UnitID, reference)
		if err != nil {
			apiErr, isAPIErr := err.(apierror.APIError)
			if !isAPIErr || apiErr.Code != apierror.ErrNotFound {
				return nil, err
			}
		} else {
			closing := posting.BalanceAfter
			row.Closing = &closing
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// PaymentCandidates lists the units a payment request can go out for: report
// posted, positive closing balance, payment not yet issued.
func (b *Backoffice) PaymentCandidates(ctx context.Context, ym string) ([]model.PaymentCandidate, error) {
	workflow, err := b.MonthWorkflow(ctx, ym)
	if err != nil {
		return nil, err
	}

	candidates := []model.PaymentCandidate{}
	for _, row := range workflow {
		if !row.Status.ReportIssued || row.Status.PaymentIssued {
			continue
		}
		if row.Closing == nil || *row.Closing <= 0 {
			continue
		}
		candidates = append(candidates, model.PaymentCandidate{
			UnitID:           row.UnitID,
			UnitName:         row.UnitName,
			PaymentType:      row.PaymentType,
			ReportMonth:      ym,
			Closing:          *row.Closing,
			PaymentRequested: row.Status.PaymentRequested,
		})
	}
	return candidates, nil
}

// RequestPayment queues a unit's month for payment. The report must already
// be posted and the payment must not have gone out; requesting twice is a
// no-op.
func (b *Backoffice) RequestPayment(ctx context.Context, unitID, ym string) error {
	cycle, err := b.datasource.GetReportCycle(ctx, unitID, ym)
	if err != nil {
		apiErr, isAPIErr := err.(apierror.APIError)
		if !isAPIErr || apiErr.Code != apierror.ErrNotFound {
			return err
		}
		return apierror.NewAPIError(apierror.ErrBadRequest, "Report has not been issued for this month", err)
	}
	if !cycle.ReportIssued() {
		return apierror.NewAPIError(apierror.ErrBadRequest, "Report has not been issued for this month", nil)
	}
	if cycle.PaymentIssued() {
		return apierror.NewAPIError(apierror.ErrConflict, "Payment has already been issued for this month", nil)
	}
	return b.datasource.MarkPaymentRequested(ctx, unitID, ym, time.Now())
}

// MarkStatementEmailed records that the statement email went out for a unit's
// month.
func (b *Backoffice) MarkStatementEmailed(ctx context.Context, unitID, ym, status, messageID string) error {
	if _, err := model.ParseMonth(ym); err != nil {
		return apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), err)
	}
	return b.datasource.MarkEmailSent(ctx, unitID, ym, status, messageID, time.Now())
}

// CycleStatus reads the stage flags of one unit's report month. A month no
// cycle row exists for reports all stages pending.
func (b *Backoffice) CycleStatus(ctx context.Context, unitID, ym string) (*model.CycleStatus, error) {
	cycle, err := b.datasource.GetReportCycle(ctx, unitID, ym)
	if err != nil {
		apiErr, isAPIErr := err.(apierror.APIError)
		if isAPIErr && apiErr.Code == apierror.ErrNotFound {
			empty := model.ReportCycle{UnitID: unitID, ReportMonth: ym}
			status := empty.Status()
			return &status, nil
		}
		return nil, err
	}
	status := cycle.Status()
	return &status, nil
}
