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
)

// SourceAirbnb marks slices that came through the Airbnb channel. Anything
// else is treated as a private (non-channel) booking.
const SourceAirbnb = "Airbnb"

// cancelledEpsilon is the payout magnitude below which a cancelled Airbnb
// slice is considered to have no financial effect in the month.
const cancelledEpsilon = 1e-5

// CancelPrefix is prepended to the guest name of cancelled slices that still
// carry money in the month.
const CancelPrefix = "(Cancel) "

// BookingSlice is the portion of a booking that falls inside one report
// month. A booking spanning a month boundary contributes one slice per month.
type BookingSlice struct {
	SliceID       string  `json:"slice_id"`
	BookingID     string  `json:"booking_id"`
	UnitID        string  `json:"unit_id"`
	Month         string  `json:"month"`
	GuestName     string  `json:"guest_name"`
	Source        string  `json:"source"`
	Status        string  `json:"status"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	NightsInMonth int     `json:"nights_in_month"`
	PayoutInMonth float64 `json:"payout_in_month"`
	OwnerPayout   float64 `json:"owner_payout"`
	O2Commission  float64 `json:"o2_commission"`
	CleaningFee   float64 `json:"cleaning_fee"`
	RoomFee       float64 `json:"room_fee"`
}

// IsAirbnb reports whether the slice came through the Airbnb channel.
func (s *BookingSlice) IsAirbnb() bool {
	return s.Source == SourceAirbnb
}

// IsCancelledStatus reports whether a booking status means the reservation
// was cancelled. Channel exports are inconsistent about spelling, so both
// known exact statuses and any status containing a cancelled marker count.
func IsCancelledStatus(status string) bool {
	st := strings.ToUpper(strings.TrimSpace(status))
	switch st {
	case "CANCELLED", "CANCELED",
		"CANCELLED_BY_GUEST", "CANCELED_BY_GUEST",
		"CANCELLED_BY_HOST", "CANCELED_BY_HOST":
		return true
	}
	return strings.Contains(st, "CANCELLED") || strings.Contains(st, "CANCELED")
}

// IsCancelled reports whether the slice belongs to a cancelled booking.
func (s *BookingSlice) IsCancelled() bool {
	return IsCancelledStatus(s.Status)
}

// IncludeInStatement decides whether the slice appears on the monthly
// statement. Cancelled private bookings never appear. Cancelled Airbnb
// bookings appear only when money actually moved in the month, and then the
// guest name is flagged with the cancel prefix. The returned slice is a copy
// when a rename was needed.
func (s BookingSlice) IncludeInStatement() (BookingSlice, bool) {
	if !s.IsCancelled() {
		return s, true
	}
	if !s.IsAirbnb() {
		return s, false
	}
	if math.Abs(s.PayoutInMonth) < cancelledEpsilon {
		return s, false
	}
	if !strings.HasPrefix(s.GuestName, CancelPrefix) {
		s.GuestName = CancelPrefix + s.GuestName
	}
	return s, true
}

// FilterStatementSlices applies IncludeInStatement to every slice and returns
// the surviving rows in statement display order.
func FilterStatementSlices(slices []BookingSlice) []BookingSlice {
	out := make([]BookingSlice, 0, len(slices))
	for _, s := range slices {
		if kept, ok := s.IncludeInStatement(); ok {
			out = append(out, kept)
		}
	}
	SortStatementSlices(out)
	return out
}

// SortStatementSlices orders slices for display: active bookings first by
// check-in, then cancelled ones by check-in. Slices with no check-in date
// sink to the bottom of their group; slice id settles any remaining tie.
func SortStatementSlices(slices []BookingSlice) {
	sort.SliceStable(slices, func(i, j int) bool {
		ci, cj := slices[i].IsCancelled(), slices[j].IsCancelled()
		if ci != cj {
			return !ci
		}
		di, dj := DatePart(slices[i].CheckIn), DatePart(slices[j].CheckIn)
		if (di == "") != (dj == "") {
			return di != ""
		}
		if di != dj {
			return di < dj
		}
		return slices[i].SliceID < slices[j].SliceID
	})
}

// SliceTotals are the per-source sums a monthly statement is built from.
type SliceTotals struct {
	PayoutInMonth      float64 `json:"payout_in_month"`
	OwnerPayoutTotal   float64 `json:"owner_payout_total"`
	OwnerPayoutPrivate float64 `json:"owner_payout_private"`
	O2CommissionAirbnb float64 `json:"o2_commission_airbnb"`
	CleaningAirbnb     float64 `json:"cleaning_airbnb"`
	Nights             int     `json:"nights"`
}

// SumSlices accumulates the statement totals over already-filtered slices.
// OwnerPayoutTotal sums the owner share of every slice regardless of channel;
// OwnerPayoutPrivate only the non-Airbnb ones.
func SumSlices(slices []BookingSlice) SliceTotals {
	var t SliceTotals
	for _, s := range slices {
		t.PayoutInMonth += s.PayoutInMonth
		t.OwnerPayoutTotal += s.OwnerPayout
		t.Nights += s.NightsInMonth
		if s.IsAirbnb() {
			t.O2CommissionAirbnb += s.O2Commission
			t.CleaningAirbnb += s.CleaningFee
		} else {
			t.OwnerPayoutPrivate += s.OwnerPayout
		}
	}
	return t
}

// AverageRoomFee returns the mean nightly room fee over slices that carry
// one. Zero-fee slices are data gaps, not free nights, and are skipped.
func AverageRoomFee(slices []BookingSlice) float64 {
	var sum float64
	var n int
	for _, s := range slices {
		if s.RoomFee > 0 {
			sum += s.RoomFee
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
