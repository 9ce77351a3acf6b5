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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportIssued(t *testing.T) {
	now := time.Now()
	assert.False(t, (&ReportCycle{}).ReportIssued())
	assert.True(t, (&ReportCycle{ReportIssuedAt: &now}).ReportIssued())
	assert.True(t, (&ReportCycle{ReportURL: "https://reports/2406.pdf"}).ReportIssued())
}

func TestPaymentIssued(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		cycle  ReportCycle
		issued bool
	}{
		{"empty", ReportCycle{}, false},
		{"status paid", ReportCycle{PaymentStatus: "PAID"}, true},
		{"status lowercase", ReportCycle{PaymentStatus: " sent "}, true},
		{"status pending", ReportCycle{PaymentStatus: "PENDING"}, false},
		{"payment timestamp", ReportCycle{PaymentAt: &now}, true},
		{"bank reference", ReportCycle{PaymentRef: "SPEI-123"}, true},
		{"non-zero amount", ReportCycle{PaymentAmount: 1500}, true},
		{"requested only is not issued", ReportCycle{PaymentRequested: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.issued, tt.cycle.PaymentIssued())
		})
	}
}

func TestEmailSent(t *testing.T) {
	now := time.Now()
	assert.False(t, (&ReportCycle{}).EmailSent())
	assert.False(t, (&ReportCycle{EmailStatus: "QUEUED"}).EmailSent())
	assert.True(t, (&ReportCycle{EmailStatus: "delivered"}).EmailSent())
	assert.True(t, (&ReportCycle{EmailMessageID: "msg_1"}).EmailSent())
	assert.True(t, (&ReportCycle{EmailAt: &now}).EmailSent())
}

func TestProgress(t *testing.T) {
	now := time.Now()

	c := ReportCycle{}
	assert.Equal(t, "0/3", c.Progress())

	c.ReportIssuedAt = &now
	assert.Equal(t, "1/3", c.Progress())

	c.PaymentRef = "SPEI-1"
	assert.Equal(t, "2/3", c.Progress())

	c.EmailStatus = "SENT"
	assert.Equal(t, "3/3", c.Progress())
}

func TestCycleStatus(t *testing.T) {
	now := time.Now()
	c := ReportCycle{
		UnitID:           "unit_1",
		ReportMonth:      "2024-06",
		ReportIssuedAt:   &now,
		PaymentAmount:    1500,
		PaymentRequested: true,
	}

	st := c.Status()
	assert.Equal(t, "unit_1", st.UnitID)
	assert.Equal(t, "2024-06", st.ReportMonth)
	assert.True(t, st.ReportIssued)
	assert.True(t, st.PaymentIssued)
	assert.False(t, st.EmailSent)
	assert.True(t, st.PaymentRequested)
	assert.Equal(t, "2/3", st.Progress)
}
