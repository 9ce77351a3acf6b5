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
	"math"
	"sort"
	"strings"
	"time"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// PayoutMethod identifies the bank account a payout is expected to land in.
type PayoutMethod string

const (
	MethodEspiral   PayoutMethod = "espiral"
	MethodSantander PayoutMethod = "santander"
	MethodOther     PayoutMethod = "other"
)

// AbonoMovement is the movement type of a credit row on an Espiral statement.
const AbonoMovement = "Abono"

// NormalizePayoutMethod maps the free-text payout method reported by the
// booking channel to the receiving bank account. Matching is by
// case-insensitive substring; anything unrecognized is MethodOther and is not
// eligible for bank reconciliation.
func NormalizePayoutMethod(raw string) PayoutMethod {
	m := strings.ToLower(raw)
	if strings.Contains(m, "sasanero coordinadora de servicios") || strings.Contains(m, "espiral") {
		return MethodEspiral
	}
	if strings.Contains(m, "transfer to antonio pedro") || strings.Contains(m, "santander") {
		return MethodSantander
	}
	return MethodOther
}

// Eligible reports whether the method routes to a bank account we reconcile.
func (m PayoutMethod) Eligible() bool {
	return m == MethodEspiral || m == MethodSantander
}

// Payout is a channel payout as reported by Airbnb.
type Payout struct {
	PayoutID       string                 `json:"payout_id"`
	UnitID         string                 `json:"unit_id"`
	Amount         float64                `json:"amount"`
	PayoutDate     *time.Time             `json:"payout_date,omitempty"`
	ArrivingBy     *time.Time             `json:"arriving_by,omitempty"`
	Method         string                 `json:"method"`
	Reference      string                 `json:"reference"`
	ReconEntryID   string                 `json:"recon_entry_id,omitempty"`
	ReconCheckedAt *time.Time             `json:"recon_checked_at,omitempty"`
	ReconCheckedBy string                 `json:"recon_checked_by,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
}

// NormalizedMethod resolves the receiving bank account for this payout.
func (p *Payout) NormalizedMethod() PayoutMethod {
	return NormalizePayoutMethod(p.Method)
}

// IsChecked reports whether the payout has already been reconciled against a
// bank entry. Checked state is monotonic; it is never cleared.
func (p *Payout) IsChecked() bool {
	return p.ReconCheckedAt != nil
}

// SentDate returns the date the payout is expected to have left the channel.
// The explicit payout date wins; otherwise it is estimated backwards from the
// "arriving by" promise. The second return is false when neither date exists.
func (p *Payout) SentDate(sentOffsetDays int) (time.Time, bool) {
	if p.PayoutDate != nil {
		return *p.PayoutDate, true
	}
	if p.ArrivingBy != nil {
		return p.ArrivingBy.AddDate(0, 0, -sentOffsetDays), true
	}
	return time.Time{}, false
}

// BankEntry is a single row from an imported bank statement.
type BankEntry struct {
	EntryID        string     `json:"entry_id"`
	Source         string     `json:"source"`
	FechaOn        time.Time  `json:"fecha_on"`
	Concept        string     `json:"concept"`
	Deposit        float64    `json:"deposit"`
	Withdrawal     float64    `json:"withdrawal"`
	MovementType   string     `json:"movement_type"`
	ReconPayoutID  string     `json:"recon_payout_id,omitempty"`
	ReconCheckedAt *time.Time `json:"recon_checked_at,omitempty"`
	ReconCheckedBy string     `json:"recon_checked_by,omitempty"`
}

// IsLinked reports whether the entry is already tied to a payout.
func (e *BankEntry) IsLinked() bool {
	return e.ReconPayoutID != ""
}

// EntryMatch is a bank entry scored against a payout.
type EntryMatch struct {
	EntryID         string    `json:"entry_id"`
	FechaOn         time.Time `json:"fecha_on"`
	Concept         string    `json:"concept"`
	Deposit         float64   `json:"deposit"`
	Diff            float64   `json:"diff"`
	DateDiffDays    int       `json:"date_diff_days"`
	WithinTolerance bool      `json:"within_tolerance"`
}

// PayoutMatchView is a payout annotated with its best bank entry candidate.
// Best is nil when no entry falls inside the search window.
type PayoutMatchView struct {
	Payout    Payout       `json:"payout"`
	Method    PayoutMethod `json:"method"`
	SentDate  *time.Time   `json:"sent_date,omitempty"`
	IsChecked bool         `json:"is_checked"`
	Best      *EntryMatch  `json:"best_match,omitempty"`
}

// ApproxCandidate is a payout proposed for an unmatched bank deposit.
type ApproxCandidate struct {
	PayoutID     string     `json:"payout_id"`
	UnitID       string     `json:"unit_id"`
	Amount       float64    `json:"amount"`
	SentDate     *time.Time `json:"sent_date,omitempty"`
	Diff         float64    `json:"diff"`
	DateDiffDays int        `json:"date_diff_days"`
}

// UnmatchedDeposit is a bank credit with no linked payout, with up to a
// handful of likely payouts attached.
type UnmatchedDeposit struct {
	Entry      BankEntry         `json:"entry"`
	Candidates []ApproxCandidate `json:"candidates"`
}

func dayDiff(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

// conceptSimilarity scores how close a statement concept is to the payout
// reference. Substring containment counts as a full match, otherwise the
// levenshtein ratio of the lowercased strings.
func conceptSimilarity(concept, reference string) float64 {
	c := strings.ToLower(strings.TrimSpace(concept))
	r := strings.ToLower(strings.TrimSpace(reference))
	if c == "" || r == "" {
		return 0
	}
	if strings.Contains(c, r) || strings.Contains(r, c) {
		return 1
	}
	return levenshtein.RatioForStrings([]rune(c), []rune(r), levenshtein.DefaultOptions)
}

// RankEntryMatches scores the given bank entries against a payout and returns
// them best-first. Ranking is by absolute amount difference, then by distance
// from the expected sent date; concept similarity to the payout reference and
// finally entry id break remaining ties.
func RankEntryMatches(p *Payout, sent time.Time, entries []BankEntry, tolerance float64) []EntryMatch {
	matches := make([]EntryMatch, 0, len(entries))
	for _, e := range entries {
		diff := math.Abs(e.Deposit - p.Amount)
		matches = append(matches, EntryMatch{
			EntryID:         e.EntryID,
			FechaOn:         e.FechaOn,
			Concept:         e.Concept,
			Deposit:         e.Deposit,
			Diff:            Round2(diff),
			DateDiffDays:    dayDiff(e.FechaOn, sent),
			WithinTolerance: diff <= tolerance,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Diff != matches[j].Diff {
			return matches[i].Diff < matches[j].Diff
		}
		if matches[i].DateDiffDays != matches[j].DateDiffDays {
			return matches[i].DateDiffDays < matches[j].DateDiffDays
		}
		si := conceptSimilarity(matches[i].Concept, p.Reference)
		sj := conceptSimilarity(matches[j].Concept, p.Reference)
		if si != sj {
			return si > sj
		}
		return matches[i].EntryID < matches[j].EntryID
	})
	return matches
}

// BestEntryMatch returns the top-ranked entry within tolerance, or nil when
// none of the candidates is close enough in amount.
func BestEntryMatch(p *Payout, sent time.Time, entries []BankEntry, tolerance float64) *EntryMatch {
	ranked := RankEntryMatches(p, sent, entries, tolerance)
	if len(ranked) == 0 || !ranked[0].WithinTolerance {
		return nil
	}
	best := ranked[0]
	return &best
}
