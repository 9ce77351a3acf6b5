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
	"math"
)

// RecurrencePeriod is how often a recurring service payment is due.
type RecurrencePeriod string

const (
	PeriodMonthly   RecurrencePeriod = "Monthly"
	PeriodBiMonthly RecurrencePeriod = "BiMonthly"
)

// ExpectedPaymentStatus classifies a recurring service payment for a month.
type ExpectedPaymentStatus string

const (
	// StatusNotOurResponsibility marks services the owner pays directly.
	StatusNotOurResponsibility ExpectedPaymentStatus = "NOT_OUR_RESPONSIBILITY"
	// StatusOkNotExpected marks bi-monthly services in their off month.
	StatusOkNotExpected ExpectedPaymentStatus = "OK_NOT_EXPECTED"
	// StatusOk marks a payment found as expected.
	StatusOk ExpectedPaymentStatus = "OK"
	// StatusOkMismatch marks a payment found with a surprising amount.
	StatusOkMismatch ExpectedPaymentStatus = "OK_MISMATCH"
	// StatusMissing marks a payment that was due but not found.
	StatusMissing ExpectedPaymentStatus = "MISSING"
)

// expectedAmountDrift is the amount difference, in currency units, from which
// a found service payment is reported as a mismatch.
const expectedAmountDrift = 0.01

// ExpectedPaymentRule is the per-unit configuration for one recurring
// service (CFE, Aguakan, HOA, Internet). Payments are looked up by exact
// description match under the service expense category.
type ExpectedPaymentRule struct {
	UnitID         string           `json:"unit_id"`
	Service        string           `json:"service"`
	Enabled        bool             `json:"enabled"`
	Period         RecurrencePeriod `json:"period"`
	StartingMonth  string           `json:"starting_month"`
	ExpectedAmount *float64         `json:"expected_amount,omitempty"`
}

// DueInMonth reports whether the service is expected to be paid in the given
// report month. Monthly services are always due. Bi-monthly services are due
// on the starting month and every second month after it; before the starting
// month nothing is due.
func (r *ExpectedPaymentRule) DueInMonth(ym string) (bool, error) {
	if r.Period != PeriodBiMonthly {
		return true, nil
	}
	month, err := ParseMonth(ym)
	if err != nil {
		return false, err
	}
	start, err := ParseMonth(r.StartingMonth)
	if err != nil {
		return false, fmt.Errorf("rule for %s has invalid starting month: %w", r.Service, err)
	}
	mi, si := MonthIndex(month), MonthIndex(start)
	if mi < si {
		return false, nil
	}
	return (mi-si)%2 == 0, nil
}

// ExpectedPaymentResult is the evaluation of one rule for one month.
type ExpectedPaymentResult struct {
	Service        string                `json:"service"`
	Status         ExpectedPaymentStatus `json:"status"`
	Message        string                `json:"message"`
	ExpectedAmount *float64              `json:"expected_amount,omitempty"`
	FoundAmount    *float64              `json:"found_amount,omitempty"`
}

// EvaluateExpectedPayment classifies one recurring service for a month given
// the amount actually found on the expense list (nil when absent).
func EvaluateExpectedPayment(rule ExpectedPaymentRule, ym string, found *float64) (ExpectedPaymentResult, error) {
	res := ExpectedPaymentResult{
		Service:        rule.Service,
		ExpectedAmount: rule.ExpectedAmount,
		FoundAmount:    found,
	}
	if !rule.Enabled {
		res.Status = StatusNotOurResponsibility
		res.Message = "Not our responsability"
		return res, nil
	}

	due, err := rule.DueInMonth(ym)
	if err != nil {
		return res, err
	}
	if !due {
		res.Status = StatusOkNotExpected
		res.Message = "Not expected this month"
		return res, nil
	}

	if found == nil {
		res.Status = StatusMissing
		if rule.ExpectedAmount != nil {
			res.Message = fmt.Sprintf("Missing Payment. Expected payment was %s", FmtMoney(*rule.ExpectedAmount))
		} else {
			res.Message = "Missing Payment"
		}
		return res, nil
	}

	if rule.ExpectedAmount != nil && math.Abs(*found-*rule.ExpectedAmount) >= expectedAmountDrift {
		res.Status = StatusOkMismatch
		res.Message = fmt.Sprintf("Expected payment was %s", FmtMoney(*rule.ExpectedAmount))
		return res, nil
	}

	res.Status = StatusOk
	res.Message = "OK"
	return res, nil
}
