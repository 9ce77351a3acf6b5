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

import "time"

// Booking is a reservation as the system knows it.
type Booking struct {
	BookingID        string     `json:"booking_id"`
	ConfirmationCode string     `json:"confirmation_code"`
	UnitID           string     `json:"unit_id"`
	GuestName        string     `json:"guest_name"`
	Source           string     `json:"source"`
	Status           string     `json:"status"`
	CheckIn          string     `json:"check_in"`
	CheckOut         string     `json:"check_out"`
	ExpectedPayout   *float64   `json:"expected_payout,omitempty"`
	IsPaid           bool       `json:"is_paid"`
	PaidMarkedBy     string     `json:"paid_marked_by,omitempty"`
	PaidMarkedAt     *time.Time `json:"paid_marked_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ReportedReservation is a row from the channel's earnings report, keyed by
// confirmation code.
type ReportedReservation struct {
	ConfirmationCode string   `json:"confirmation_code"`
	GuestName        string   `json:"guest_name"`
	CheckIn          string   `json:"check_in"`
	CheckOut         string   `json:"check_out"`
	Payout           *float64 `json:"payout,omitempty"`
}

// ReservationDiff is the comparison of one reservation between the system
// and the channel report.
type ReservationDiff struct {
	ConfirmationCode string `json:"confirmation_code"`
	GuestName        string `json:"guest_name"`
	BookingID        string `json:"booking_id,omitempty"`
	UnitID           string `json:"unit_id,omitempty"`
	InSystem         bool   `json:"in_system"`

	SystemCheckIn  string `json:"system_check_in"`
	ReportCheckIn  string `json:"report_check_in"`
	StartMismatch  bool   `json:"start_mismatch"`
	SystemCheckOut string `json:"system_check_out"`
	ReportCheckOut string `json:"report_check_out"`
	EndMismatch    bool   `json:"end_mismatch"`

	SystemPayout   *float64 `json:"system_payout,omitempty"`
	ReportPayout   *float64 `json:"report_payout,omitempty"`
	PayoutMismatch bool     `json:"payout_mismatch"`
	Diff           float64  `json:"diff"`

	IsMatched bool `json:"is_matched"`
}

// CompareReservation diffs a system booking against its reported row. The
// payout diff is signed as reported minus system, so a positive diff means
// the channel paid more than the system expected.
func CompareReservation(b *Booking, r ReportedReservation, tolerance float64) ReservationDiff {
	d := ReservationDiff{
		ConfirmationCode: r.ConfirmationCode,
		GuestName:        r.GuestName,
		InSystem:         b != nil,
		ReportCheckIn:    r.CheckIn,
		ReportCheckOut:   r.CheckOut,
		ReportPayout:     r.Payout,
	}
	if b == nil {
		d.StartMismatch = true
		d.EndMismatch = true
		d.PayoutMismatch = true
		return d
	}

	d.BookingID = b.BookingID
	d.UnitID = b.UnitID
	if d.GuestName == "" {
		d.GuestName = b.GuestName
	}
	d.SystemCheckIn = b.CheckIn
	d.SystemCheckOut = b.CheckOut
	d.SystemPayout = b.ExpectedPayout

	d.StartMismatch = IsDateMismatch(b.CheckIn, r.CheckIn)
	d.EndMismatch = IsDateMismatch(b.CheckOut, r.CheckOut)
	d.PayoutMismatch = IsMoneyMismatch(b.ExpectedPayout, r.Payout, tolerance)
	if b.ExpectedPayout != nil && r.Payout != nil {
		d.Diff = Round2(*r.Payout - *b.ExpectedPayout)
	}
	d.IsMatched = !d.StartMismatch && !d.EndMismatch && !d.PayoutMismatch
	return d
}
