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

// Unit is a managed property.
type Unit struct {
	UnitID      string                 `json:"unit_id"`
	Name        string                 `json:"name"`
	City        string                 `json:"city"`
	Active      bool                   `json:"active"`
	PaymentType PaymentType            `json:"payment_type"`
	CreatedAt   time.Time              `json:"created_at"`
	MetaData    map[string]interface{} `json:"meta_data,omitempty"`
}

// CityBucket resolves the unit's city to its reporting bucket.
func (u *Unit) CityBucket() City {
	return NormalizeCity(u.City)
}

// SettlementType returns the unit's accrual formula, defaulting to OWNERS2
// when unset.
func (u *Unit) SettlementType() PaymentType {
	if u.PaymentType == PaymentTypeClient {
		return PaymentTypeClient
	}
	return PaymentTypeOwners2
}
