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
	"net/http"

	model2 "github.com/owners2/backoffice/api/model"
	"github.com/owners2/backoffice/internal/apierror"

	"github.com/gin-gonic/gin"
)

func (a Api) MonthWorkflow(c *gin.Context) {
	month := c.Param("month")

	resp, err := a.service.MonthWorkflow(c.Request.Context(), month)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) PaymentCandidates(c *gin.Context) {
	month := c.Param("month")

	resp, err := a.service.PaymentCandidates(c.Request.Context(), month)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) RequestPayment(c *gin.Context) {
	id := c.Param("id")
	month := c.Param("month")

	err := a.service.RequestPayment(c.Request.Context(), id, month)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit_id": id, "report_month": month, "payment_requested": true})
}

func (a Api) MarkStatementEmailed(c *gin.Context) {
	id := c.Param("id")
	month := c.Param("month")

	var mark model2.MarkEmailed
	if err := c.ShouldBindJSON(&mark); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := a.service.MarkStatementEmailed(c.Request.Context(), id, month, mark.Status, mark.MessageID)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit_id": id, "report_month": month, "email_sent": true})
}

func (a Api) CycleStatus(c *gin.Context) {
	id := c.Param("id")
	month := c.Param("month")

	resp, err := a.service.CycleStatus(c.Request.Context(), id, month)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
