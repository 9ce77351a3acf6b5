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
package api

import (
	"github.com/owners2/backoffice/config"

	"github.com/owners2/backoffice/api/middleware"

	"github.com/gin-gonic/gin"
	backoffice "github.com/owners2/backoffice"
)

type Api struct {
	service *backoffice.Backoffice
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/units", a.CreateUnit)
	router.GET("/units/:id", a.GetUnit)
	router.GET("/units", a.GetActiveUnits)

	router.POST("/payouts", a.RecordPayout)
	router.GET("/payouts/review", a.ReviewPayouts)
	router.POST("/payouts/confirm", a.ConfirmPayoutMatch)
	router.POST("/bank-entries", a.RecordBankEntry)
	router.GET("/bank-entries/unmatched", a.UnmatchedDeposits)

	router.POST("/reservations/compare", a.CompareEarningsReport)
	router.GET("/bookings/unpaid", a.UnpaidBookings)
	router.POST("/bookings/:id/paid", a.MarkBookingPaid)

	router.GET("/units/:id/statements/:month", a.GetMonthlyStatement)
	router.POST("/units/:id/statements/:month/post", a.PostMonthReport)
	router.GET("/summary/:month", a.MonthlySummary)

	router.GET("/units/:id/ledger/:month", a.GetUnitLedger)
	router.POST("/units/:id/payments/:month", a.RecordReportPayment)
	router.POST("/units/:id/ledger", a.RecordManualEntry)

	router.GET("/workflow/:month", a.MonthWorkflow)
	router.GET("/workflow/:month/candidates", a.PaymentCandidates)
	router.POST("/units/:id/workflow/:month/request-payment", a.RequestPayment)
	router.POST("/units/:id/workflow/:month/emailed", a.MarkStatementEmailed)
	router.GET("/units/:id/workflow/:month", a.CycleStatus)

	return a.router
}

func NewAPI(b *backoffice.Backoffice) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{service: b, router: r}
}
