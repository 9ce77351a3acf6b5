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

package backoffice

import (
	"context"
	"embed"

	"github.com/owners2/backoffice/config"
	"github.com/owners2/backoffice/database"
	"github.com/owners2/backoffice/model"
)

// Backoffice is the service layer of the property back office. Every
// operation runs against the datasource; tolerances and windows come from the
// loaded configuration.
type Backoffice struct {
	datasource database.IDataSource
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewBackoffice initializes the service over the provided datasource. The
// configuration must be loaded before this is called.
func NewBackoffice(db database.IDataSource) (*Backoffice, error) {
	if _, err := config.Fetch(); err != nil {
		return nil, err
	}
	return &Backoffice{datasource: db}, nil
}

// CreateUnit registers a managed property.
func (b *Backoffice) CreateUnit(ctx context.Context, unit model.Unit) (model.Unit, error) {
	return b.datasource.CreateUnit(ctx, unit)
}

// GetUnit retrieves a unit by id.
func (b *Backoffice) GetUnit(ctx context.Context, id string) (*model.Unit, error) {
	return b.datasource.GetUnitByID(ctx, id)
}

// ActiveUnits lists all active units.
func (b *Backoffice) ActiveUnits(ctx context.Context) ([]model.Unit, error) {
	return b.datasource.GetActiveUnits(ctx)
}
