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

	"github.com/owners2/backoffice/internal/apierror"

	"github.com/gin-gonic/gin"
)

func (a Api) GetMonthlyStatement(c *gin.Context) {
	id := c.Param("id")
	month := c.Param("month")

	resp, err := a.service.BuildMonthlyStatement(c.Request.Context(), id, month)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) PostMonthReport(c *gin.Context) {
	id := c.Param("id")
	month := c.Param("month")
	createdBy := c.Query("created_by")
	replace := c.Query("replace") != "false"

	entry, replaced, err := a.service.PostMonthReport(c.Request.Context(), id, month, replace, createdBy)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	status := http.StatusCreated
	if replaced {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"entry": entry, "replaced": replaced})
}

func (a Api) MonthlySummary(c *gin.Context) {
	month := c.Param("month")

	resp, err := a.service.MonthlySummary(c.Request.Context(), month)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
