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

func (a Api) GetUnitLedger(c *gin.Context) {
	id := c.Param("id")
	month := c.Param("month")

	resp, err := a.service.UnitLedger(c.Request.Context(), id, month)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) RecordReportPayment(c *gin.Context) {
	id := c.Param("id")
	month := c.Param("month")

	var payment model2.RecordPayment
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := payment.ValidateRecordPayment()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	entry, err := a.service.RecordReportPayment(c.Request.Context(), id, month, payment.Amount, payment.Reference, payment.CreatedBy)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (a Api) RecordManualEntry(c *gin.Context) {
	id := c.Param("id")

	var entry model2.ManualEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := entry.ValidateManualEntry()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.RecordManualEntry(c.Request.Context(), id, entry.Description, entry.Reference, entry.Amount, entry.ParsedTxnDate(), entry.CreatedBy)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}
