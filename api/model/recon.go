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

type RecordPayout struct {
	UnitID     string                 `json:"unit_id"`
	Amount     float64                `json:"amount"`
	PayoutDate string                 `json:"payout_date"`
	ArrivingBy string                 `json:"arriving_by"`
	Method     string                 `json:"method"`
	Reference  string                 `json:"reference"`
	MetaData   map[string]interface{} `json:"meta_data"`
}

type RecordBankEntry struct {
	Source       string  `json:"source"`
	FechaOn      string  `json:"fecha_on"`
	Concept      string  `json:"concept"`
	Deposit      float64 `json:"deposit"`
	Withdrawal   float64 `json:"withdrawal"`
	MovementType string  `json:"movement_type"`
}

type ConfirmMatch struct {
	PayoutID  string `json:"payout_id"`
	EntryID   string `json:"entry_id"`
	CheckedBy string `json:"checked_by"`
}
