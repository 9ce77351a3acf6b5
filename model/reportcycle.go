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
	"strings"
	"time"
)

// ReportCycle tracks the three closing stages of a unit's report month:
// report issued, payment sent, email delivered. One row exists per
// (unit, report month) and its flags only ever move forward.
type ReportCycle struct {
	CycleID     string `json:"cycle_id"`
	UnitID      string `json:"unit_id"`
	ReportMonth string `json:"report_month"`

	ReportIssuedAt *time.Time `json:"report_issued_at,omitempty"`
	ReportURL      string     `json:"report_url,omitempty"`

	PaymentStatus      string     `json:"payment_status,omitempty"`
	PaymentAt          *time.Time `json:"payment_at,omitempty"`
	PaymentRef         string     `json:"payment_ref,omitempty"`
	PaymentAmount      float64    `json:"payment_amount"`
	PaymentRequested   bool       `json:"payment_requested"`
	PaymentRequestedAt *time.Time `json:"payment_requested_at,omitempty"`

	EmailStatus    string     `json:"email_status,omitempty"`
	EmailMessageID string     `json:"email_message_id,omitempty"`
	EmailAt        *time.Time `json:"email_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// paymentDoneStatuses and emailDoneStatuses are the upstream status values
// that count a stage as complete, beyond the presence of timestamps or ids.
var (
	paymentDoneStatuses = map[string]bool{"ISSUED": true, "PAID": true, "SENT": true, "DONE": true}
	emailDoneStatuses   = map[string]bool{"SENT": true, "DELIVERED": true, "DONE": true}
)

// ReportIssued reports whether the month report was generated for the cycle.
func (c *ReportCycle) ReportIssued() bool {
	return c.ReportIssuedAt != nil || c.ReportURL != ""
}

// PaymentIssued reports whether the owner payment went out. Any of an
// affirmative status, a payment timestamp, a bank reference or a non-zero
// amount counts; upstream systems are inconsistent about which they set.
func (c *ReportCycle) PaymentIssued() bool {
	if paymentDoneStatuses[strings.ToUpper(strings.TrimSpace(c.PaymentStatus))] {
		return true
	}
	return c.PaymentAt != nil || c.PaymentRef != "" || c.PaymentAmount != 0
}

// EmailSent reports whether the statement email reached the owner.
func (c *ReportCycle) EmailSent() bool {
	if emailDoneStatuses[strings.ToUpper(strings.TrimSpace(c.EmailStatus))] {
		return true
	}
	return c.EmailMessageID != "" || c.EmailAt != nil
}

// StagesDone counts completed closing stages.
func (c *ReportCycle) StagesDone() int {
	n := 0
	if c.ReportIssued() {
		n++
	}
	if c.PaymentIssued() {
		n++
	}
	if c.EmailSent() {
		n++
	}
	return n
}

// Progress renders the closing progress as "n/3".
func (c *ReportCycle) Progress() string {
	return fmt.Sprintf("%d/3", c.StagesDone())
}

// CycleStatus is the derived view of a report cycle.
type CycleStatus struct {
	UnitID      string `json:"unit_id"`
	ReportMonth string `json:"report_month"`

	ReportIssued     bool   `json:"report_issued"`
	PaymentIssued    bool   `json:"payment_issued"`
	EmailSent        bool   `json:"email_sent"`
	PaymentRequested bool   `json:"payment_requested"`
	Progress         string `json:"progress"`

	ReportIssuedAt *time.Time `json:"report_issued_at,omitempty"`
	ReportURL      string     `json:"report_url,omitempty"`
	PaymentAt      *time.Time `json:"payment_at,omitempty"`
	PaymentRef     string     `json:"payment_ref,omitempty"`
	PaymentAmount  float64    `json:"payment_amount"`
	EmailAt        *time.Time `json:"email_at,omitempty"`
}

// Status derives the flag view of the cycle.
func (c *ReportCycle) Status() CycleStatus {
	return CycleStatus{
		UnitID:           c.UnitID,
		ReportMonth:      c.ReportMonth,
		ReportIssued:     c.ReportIssued(),
		PaymentIssued:    c.PaymentIssued(),
		EmailSent:        c.EmailSent(),
		PaymentRequested: c.PaymentRequested,
		Progress:         c.Progress(),
		ReportIssuedAt:   c.ReportIssuedAt,
		ReportURL:        c.ReportURL,
		PaymentAt:        c.PaymentAt,
		PaymentRef:       c.PaymentRef,
		PaymentAmount:    c.PaymentAmount,
		EmailAt:          c.EmailAt,
	}
}

// UnitWorkflow is one unit's row on the month closing dashboard.
type UnitWorkflow struct {
	UnitID      string      `json:"unit_id"`
	UnitName    string      `json:"unit_name"`
	PaymentType PaymentType `json:"payment_type"`
	Status      CycleStatus `json:"status"`
	Closing     *float64    `json:"closing,omitempty"`
}

// PaymentCandidate is a unit eligible for a payment request: report issued,
// positive closing balance, payment not yet out.
type PaymentCandidate struct {
	UnitID           string      `json:"unit_id"`
	UnitName         string      `json:"unit_name"`
	PaymentType      PaymentType `json:"payment_type"`
	ReportMonth      string      `json:"report_month"`
	Closing          float64     `json:"closing"`
	PaymentRequested bool        `json:"payment_requested"`
}
