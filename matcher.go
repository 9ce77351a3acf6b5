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
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/owners2/backoffice/config"
	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

// RecordPayout stores an imported channel payout.
func (b *Backoffice) RecordPayout(ctx context.Context, payout *model.Payout) (*model.Payout, error) {
	return b.datasource.RecordPayout(ctx, payout)
}

// RecordBankEntry stores an imported bank statement row.
func (b *Backoffice) RecordBankEntry(ctx context.Context, entry *model.BankEntry) (*model.BankEntry, error) {
	return b.datasource.RecordBankEntry(ctx, entry)
}

// ReviewPayouts builds the reconciliation review for payouts whose expected
// sent date falls in [from, to]. Each eligible payout is scored against the
// unlinked deposits of its receiving account inside the configured window and
// annotated with its best candidate. Payouts routed to an account we do not
// reconcile, or with no usable date, come back without a candidate.
func (b *Backoffice) ReviewPayouts(ctx context.Context, from, to time.Time, includeChecked bool) ([]model.PayoutMatchView, error) {
	ctx, span := otel.Tracer("backoffice.reconciliation").Start(ctx, "ReviewPayouts")
	defer span.End()

	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	recon := cnf.Reconciliation

	payouts, err := b.datasource.GetPayoutsInWindow(ctx, from, to, recon.SentOffsetDays, includeChecked)
	if err != nil {
		return nil, err
	}

	views := make([]model.PayoutMatchView, 0, len(payouts))
	for _, payout := range payouts {
		view := model.PayoutMatchView{
			Payout:    *payout,
			Method:    payout.NormalizedMethod(),
			IsChecked: payout.IsChecked(),
		}

		sent, ok := payout.SentDate(recon.SentOffsetDays)
		if ok {
			view.SentDate = &sent
		}
		if !ok || !view.Method.Eligible() || view.IsChecked {
			views = append(views, view)
			continue
		}

		windowFrom := sent.AddDate(0, 0, -recon.PreDays)
		windowTo := sent.AddDate(0, 0, recon.PostDays)
		entries, err := b.datasource.GetBankEntriesInWindow(ctx, string(view.Method), windowFrom, windowTo, true)
		if err != nil {
			return nil, err
		}
		view.Best = model.BestEntryMatch(payout, sent, entries, recon.MoneyTolerance)
		views = append(views, view)
	}

	return views, nil
}

// ConfirmPayoutMatch records that a reviewer accepted a payout against a bank
// entry. Both sides must exist and the payout must route to a reconciled
// account; an Espiral link additionally requires an Abono movement. The link
// is idempotent for the same pair and conflicts when either side is already
// taken.
func (b *Backoffice) ConfirmPayoutMatch(ctx context.Context, payoutID, entryID, checkedBy string) error {
	ctx, span := otel.Tracer("backoffice.reconciliation").Start(ctx, "ConfirmPayoutMatch")
	defer span.End()

	payout, err := b.datasource.GetPayoutByID(ctx, payoutID)
	if err != nil {
		return err
	}
	entry, err := b.datasource.GetBankEntryByID(ctx, entryID)
	if err != nil {
		return err
	}

	method := payout.NormalizedMethod()
	if !method.Eligible() {
		return apierror.NewAPIError(apierror.ErrBadRequest, fmt.Sprintf("Payout method '%s' does not route to a reconciled account", payout.Method), nil)
	}
	if method == model.MethodEspiral && entry.MovementType != model.AbonoMovement {
		return apierror.NewAPIError(apierror.ErrBadRequest, fmt.Sprintf("Entry '%s' is not an '%s' movement", entry.EntryID, model.AbonoMovement), nil)
	}

	return b.datasource.LinkPayoutToEntry(ctx, payoutID, entryID, checkedBy)
}

// UnmatchedDeposits lists the credits of one account with no linked payout
// inside [from, to], each with up to the configured number of likely payout
// candidates attached. Candidates are unchecked payouts routed to the same
// account, closest in amount first.
func (b *Backoffice) UnmatchedDeposits(ctx context.Context, source string, from, to time.Time) ([]model.UnmatchedDeposit, error) {
	ctx, span := otel.Tracer("backoffice.reconciliation").Start(ctx, "UnmatchedDeposits")
	defer span.End()

	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	recon := cnf.Reconciliation

	entries, err := b.datasource.GetUnmatchedDeposits(ctx, source, from, to)
	if err != nil {
		return nil, err
	}

	// One payout fetch covers every deposit; the deposit dates all sit
	// inside [from, to], so widening by the search window is enough.
	payoutFrom := from.AddDate(0, 0, -recon.PostDays)
	payoutTo := to.AddDate(0, 0, recon.PreDays)
	payouts, err := b.datasource.GetPayoutsInWindow(ctx, payoutFrom, payoutTo, recon.SentOffsetDays, false)
	if err != nil {
		return nil, err
	}

	deposits := make([]model.UnmatchedDeposit, 0, len(entries))
	for _, entry := range entries {
		deposits = append(deposits, model.UnmatchedDeposit{
			Entry:      entry,
			Candidates: approxCandidates(entry, source, payouts, recon),
		})
	}
	return deposits, nil
}

// approxCandidates ranks unchecked payouts of the deposit's account by amount
// closeness, then by date distance, and caps the list.
func approxCandidates(entry model.BankEntry, source string, payouts []*model.Payout, recon config.ReconciliationConfig) []model.ApproxCandidate {
	candidates := []model.ApproxCandidate{}
	for _, payout := range payouts {
		if string(payout.NormalizedMethod()) != source {
			continue
		}
		sent, ok := payout.SentDate(recon.SentOffsetDays)
		if !ok {
			continue
		}
		dateDiff := int(math.Abs(entry.FechaOn.Sub(sent).Hours() / 24))
		if dateDiff > recon.PreDays+recon.PostDays {
			continue
		}
		sentCopy := sent
		candidates = append(candidates, model.ApproxCandidate{
			PayoutID:     payout.PayoutID,
			UnitID:       payout.UnitID,
			Amount:       payout.Amount,
			SentDate:     &sentCopy,
			Diff:         model.Round2(math.Abs(entry.Deposit - payout.Amount)),
			DateDiffDays: dateDiff,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Diff != candidates[j].Diff {
			return candidates[i].Diff < candidates[j].Diff
		}
		if candidates[i].DateDiffDays != candidates[j].DateDiffDays {
			return candidates[i].DateDiffDays < candidates[j].DateDiffDays
		}
		return candidates[i].PayoutID < candidates[j].PayoutID
	})
	if len(candidates) > recon.MaxApproxCandidates {
		candidates = candidates[:recon.MaxApproxCandidates]
	}
	return candidates
}
