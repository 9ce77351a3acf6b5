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
	"errors"
	"net/http"
	"time"

	model2 "github.com/owners2/backoffice/api/model"
	"github.com/owners2/backoffice/internal/apierror"

	"github.com/gin-gonic/gin"
)

// dateRange reads the from/to query params shared by the review endpoints.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("from is required as YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("to is required as YYYY-MM-DD")
	}
	return from, to, nil
}

func (a Api) RecordPayout(c *gin.Context) {
	var newPayout model2.RecordPayout
	if err := c.ShouldBindJSON(&newPayout); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newPayout.ValidateRecordPayout()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.RecordPayout(c.Request.Context(), newPayout.ToPayout())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) RecordBankEntry(c *gin.Context) {
	var newEntry model2.RecordBankEntry
	if err := c.ShouldBindJSON(&newEntry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newEntry.ValidateRecordBankEntry()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.RecordBankEntry(c.Request.Context(), newEntry.ToBankEntry())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) ReviewPayouts(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	includeChecked := c.Query("include_checked") == "true"

	resp, err := a.service.ReviewPayouts(c.Request.Context(), from, to, includeChecked)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) ConfirmPayoutMatch(c *gin.Context) {
	var confirm model2.ConfirmMatch
	if err := c.ShouldBindJSON(&confirm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := confirm.ValidateConfirmMatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err = a.service.ConfirmPayoutMatch(c.Request.Context(), confirm.PayoutID, confirm.EntryID, confirm.CheckedBy)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payout_id": confirm.PayoutID, "entry_id": confirm.EntryID})
}

func (a Api) UnmatchedDeposits(c *gin.Context) {
	source := c.Query("source")
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source is required"})
		return
	}
	from, to, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.service.UnmatchedDeposits(c.Request.Context(), source, from, to)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
