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
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/owners2/backoffice/internal/apierror"
	"github.com/owners2/backoffice/model"
)

func (d Datasource) CreateUnit(ctx context.Context, u model.Unit) (model.Unit, error) {
	metaDataJSON, err := json.Marshal(u.MetaData)
	if err != nil {
		return model.Unit{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	if u.UnitID == "" {
		u.UnitID = GenerateUUIDWithSuffix("unit")
	}
	if u.PaymentType == "" {
		u.PaymentType = model.PaymentTypeOwners2
	}
	u.Active = true
	u.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO backoffice.units (unit_id, name, city, active, payment_type, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.UnitID, u.Name, u.City, u.Active, u.PaymentType, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.Unit{}, apierror.NewAPIError(apierror.ErrConflict, "Unit with this ID already exists", err)
			default:
				return model.Unit{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Unit{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create unit", err)
	}

	return u, nil
}

func (d Datasource) GetUnitByID(ctx context.Context, id string) (*model.Unit, error) {
	u := model.Unit{}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT unit_id, name, city, active, payment_type, created_at, meta_data
		FROM backoffice.units
		WHERE unit_id = $1
	`, id)

	var metaDataJSON []byte
	err := row.Scan(&u.UnitID, &u.Name, &u.City, &u.Active, &u.PaymentType, &u.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Unit not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve unit", err)
	}

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &u.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	return &u, nil
}

func (d Datasource) GetActiveUnits(ctx context.Context) ([]model.Unit, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT unit_id, name, city, active, payment_type, created_at
		FROM backoffice.units
		WHERE active = TRUE
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve units", err)
	}
	defer rows.Close()

	units := []model.Unit{}

	for rows.Next() {
		u := model.Unit{}
		err = rows.Scan(&u.UnitID, &u.Name, &u.City, &u.Active, &u.PaymentType, &u.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan unit data", err)
		}
		units = append(units, u)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over units", err)
	}

	return units, nil
}
