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
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/owners2/backoffice/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func payoutDateOrArrivingByValidation(p *RecordPayout) validation.RuleFunc {
	return func(value interface{}) error {
		if p.PayoutDate == "" && p.ArrivingBy == "" {
			return errors.New("either payout_date or arriving_by is required")
		}
		return nil
	}
}

func depositOrWithdrawalValidation(e *RecordBankEntry) validation.RuleFunc {
	return func(value interface{}) error {
		if e.Deposit == 0 && e.Withdrawal == 0 {
			return errors.New("either deposit or withdrawal must be non-zero")
		}
		return nil
	}
}

func validateDateFormat(value string) error {
	_, err := time.Parse("2006-01-02", value)
	if err != nil {
		return errors.New("please format the date as 'YYYY-MM-DD' (e.g., 2024-06-15)")
	}
	return nil
}

func dateFieldRule(value interface{}) error {
	dateStr, ok := value.(string)
	if !ok {
		return errors.New("invalid type for date")
	}
	return validateDateFormat(dateStr)
}

func (u *CreateUnit) ValidateCreateUnit() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Name, validation.Required),
		validation.Field(&u.PaymentType, validation.In(string(model.PaymentTypeOwners2), string(model.PaymentTypeClient))),
	)
}

func (p *RecordPayout) ValidateRecordPayout() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.UnitID, validation.Required),
		validation.Field(&p.Amount, validation.Required, validation.Min(0.01)),
		validation.Field(&p.Method, validation.Required),
		validation.Field(&p.PayoutDate, validation.By(payoutDateOrArrivingByValidation(p)), validation.When(p.PayoutDate != "", validation.By(dateFieldRule))),
		validation.Field(&p.ArrivingBy, validation.When(p.ArrivingBy != "", validation.By(dateFieldRule))),
	)
}

func (e *RecordBankEntry) ValidateRecordBankEntry() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Source, validation.Required),
		validation.Field(&e.FechaOn, validation.Required, validation.By(dateFieldRule)),
		validation.Field(&e.Deposit, validation.By(depositOrWithdrawalValidation(e))),
	)
}

func (m *ConfirmMatch) ValidateConfirmMatch() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.PayoutID, validation.Required),
		validation.Field(&m.EntryID, validation.Required),
	)
}

func (p *RecordPayment) ValidateRecordPayment() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Amount, validation.Required, validation.Min(0.01)),
		validation.Field(&p.Reference, validation.Required),
	)
}

func (m *ManualEntry) ValidateManualEntry() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Description, validation.Required),
		validation.Field(&m.Amount, validation.Required),
		validation.Field(&m.TxnDate, validation.When(m.TxnDate != "", validation.By(dateFieldRule))),
	)
}

func (r *CompareReport) ValidateCompareReport() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Rows, validation.Required),
	)
}

func (u *CreateUnit) ToUnit() model.Unit {
	return model.Unit{UnitID: u.UnitID, Name: u.Name, City: u.City, PaymentType: model.PaymentType(u.PaymentType), MetaData: u.MetaData}
}

func (p *RecordPayout) ToPayout() *model.Payout {
	var payoutDate *time.Time
	var arrivingBy *time.Time

	if p.PayoutDate != "" {
		parsed, err := time.Parse("2006-01-02", p.PayoutDate)
		if err != nil {
			logrus.Error(err)
		} else {
			payoutDate = &parsed
		}
	}

	if p.ArrivingBy != "" {
		parsed, err := time.Parse("2006-01-02", p.ArrivingBy)
		if err != nil {
			logrus.Error(err)
		} else {
			arrivingBy = &parsed
		}
	}

	return &model.Payout{UnitID: p.UnitID, Amount: p.Amount, PayoutDate: payoutDate, ArrivingBy: arrivingBy, Method: p.Method, Reference: p.Reference, MetaData: p.MetaData}
}

func (e *RecordBankEntry) ToBankEntry() *model.BankEntry {
	fechaOn, err := time.Parse("2006-01-02", e.FechaOn)
	if err != nil {
		logrus.Error(err)
	}

	return &model.BankEntry{Source: e.Source, FechaOn: fechaOn, Concept: e.Concept, Deposit: e.Deposit, Withdrawal: e.Withdrawal, MovementType: e.MovementType}
}

func (r *CompareReport) ToReservations() []model.ReportedReservation {
	rows := make([]model.ReportedReservation, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, model.ReportedReservation{
			ConfirmationCode: row.ConfirmationCode,
			GuestName:        row.GuestName,
			CheckIn:          row.CheckIn,
			CheckOut:         row.CheckOut,
			Payout:           row.Payout,
		})
	}
	return rows
}

func (m *ManualEntry) ParsedTxnDate() *time.Time {
	if m.TxnDate == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", m.TxnDate)
	if err != nil {
		logrus.Error(err)
		return nil
	}
	return &parsed
}
