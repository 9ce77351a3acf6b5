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
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/owners2/backoffice/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if _, err := db.Exec(`CREATE SCHEMA IF NOT EXISTS backoffice`); err != nil {
		return nil, err
	}
	err = createUnitTable(db)
	if err != nil {
		return nil, err
	}
	err = createPayoutTable(db)
	if err != nil {
		return nil, err
	}
	err = createBankEntryTable(db)
	if err != nil {
		return nil, err
	}
	err = createBookingTable(db)
	if err != nil {
		return nil, err
	}
	err = createBookingSliceTable(db)
	if err != nil {
		return nil, err
	}
	err = createUnitTransactionTable(db)
	if err != nil {
		return nil, err
	}
	err = createExpectedPaymentRuleTable(db)
	if err != nil {
		return nil, err
	}
	err = createLedgerEntryTable(db)
	if err != nil {
		return nil, err
	}
	err = createReportCycleTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func GenerateUUIDWithSuffix(module string) string {
	// Generate a new UUID
	id := uuid.New()

	// Convert the UUID to a string
	uuidStr := id.String()

	// Add the module suffix
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)

	return idWithSuffix
}

// createUnitTable creates a PostgreSQL table for the Unit struct
func createUnitTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backoffice.units (
			id SERIAL PRIMARY KEY,
			unit_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			city TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			payment_type TEXT NOT NULL DEFAULT 'OWNERS2',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	log.Println(err)
	return err
}

// createPayoutTable creates a PostgreSQL table for the Payout struct
func createPayoutTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backoffice.payouts (
			id SERIAL PRIMARY KEY,
			payout_id TEXT NOT NULL UNIQUE,
			unit_id TEXT REFERENCES backoffice.units(unit_id),
			amount NUMERIC(14,2) NOT NULL,
			payout_date DATE,
			arriving_by DATE,
			method TEXT,
			reference TEXT,
			recon_entry_id TEXT,
			recon_checked_at TIMESTAMP,
			recon_checked_by TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	log.Println(err)
	return err
}

// createBankEntryTable creates a PostgreSQL table for imported bank statement rows
func createBankEntryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backoffice.bank_entries (
			id SERIAL PRIMARY KEY,
			entry_id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			fecha_on DATE NOT NULL,
			concepto TEXT,
			deposito NUMERIC(14,2) NOT NULL DEFAULT 0,
			retiro NUMERIC(14,2) NOT NULL DEFAULT 0,
			tipo_movimiento TEXT,
			recon_payout_id TEXT,
			recon_checked_at TIMESTAMP,
			recon_checked_by TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createBookingTable creates a PostgreSQL table for the Booking struct
func createBookingTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backoffice.bookings (
			id SERIAL PRIMARY KEY,
			booking_id TEXT NOT NULL UNIQUE,
			confirmation_code TEXT UNIQUE,
			unit_id TEXT REFERENCES backoffice.units(unit_id),
			guest_name TEXT,
			source TEXT,
			status TEXT,
			check_in DATE,
			check_out DATE,
			expected_payout NUMERIC(14,2),
			is_paid BOOLEAN NOT NULL DEFAULT FALSE,
			paid_marked_by TEXT,
			paid_marked_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createBookingSliceTable creates a PostgreSQL table for per-month booking slices
func createBookingSliceTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backoffice.booking_slices (
			id SERIAL PRIMARY KEY,
			slice_id TEXT NOT NULL UNIQUE,
			booking_id TEXT REFERENCES backoffice.bookings(booking_id),
			unit_id TEXT REFERENCES backoffice.units(unit_id),
			month TEXT NOT NULL,
			guest_name TEXT,
			source TEXT,
			status TEXT,
			check_in DATE,
			check_out DATE,
			nights_in_month INT NOT NULL DEFAULT 0,
			payout_in_month NUMERIC(14,2) NOT NULL DEFAULT 0,
			owner_payout NUMERIC(14,2) NOT NULL DEFAULT 0,
			o2_commission NUMERIC(14,2) NOT NULL DEFAULT 0,
			cleaning_fee NUMERIC(14,2) NOT NULL DEFAULT 0,
			room_fee NUMERIC(14,2) NOT NULL DEFAULT 0
		)
	`)
	log.Println(err)
	return err
}

// createUnitTransactionTable creates a PostgreSQL table for unit expenses, credits and housekeeping charges
func createUnitTransactionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backoffice.unit_transactions (
			id SERIAL PRIMARY KEY,
			transaction_id TEXT NOT NULL UNIQUE,
			unit_id TEXT REFERENCES backoffice.units(unit_id),
			month TEXT NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('expense', 'credit', 'hk_charge')),
			category TEXT,
			description TEXT,
			cost_centre TEXT,
			amount NUMERIC(14,2) NOT NULL,
			txn_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createExpectedPaymentRuleTable creates a PostgreSQL table for recurring service payment rules
func createExpectedPaymentRuleTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backoffice.expected_payment_rules (
			id SERIAL PRIMARY KEY,
			unit_id TEXT NOT NULL REFERENCES backoffice.units(unit_id),
			service TEXT NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			period TEXT NOT NULL DEFAULT 'Monthly',
			starting_month TEXT,
			expected_amount NUMERIC(14,2),
			UNIQUE (unit_id, service)
		)
	`)
	log.Println(err)
	return err
}

// createLedgerEntryTable creates a PostgreSQL table for the LedgerEntry struct
func createLedgerEntryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backoffice.ledger_entries (
			id SERIAL PRIMARY KEY,
			ledger_id TEXT NOT NULL UNIQUE,
			unit_id TEXT NOT NULL REFERENCES backoffice.units(unit_id),
			entry_type TEXT NOT NULL,
			description TEXT,
			reference TEXT,
			amount NUMERIC(14,2) NOT NULL,
			balance_after NUMERIC(14,2) NOT NULL,
			txn_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			created_by TEXT,
			UNIQUE (unit_id, reference)
		)
	`)
	log.Println(err)
	return err
}

// createReportCycleTable creates a PostgreSQL table for the ReportCycle struct
func createReportCycleTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backoffice.report_cycles (
			id SERIAL PRIMARY KEY,
			cycle_id TEXT NOT NULL UNIQUE,
			unit_id TEXT NOT NULL REFERENCES backoffice.units(unit_id),
			report_month TEXT NOT NULL,
			report_issued_at TIMESTAMP,
			report_url TEXT,
			payment_status TEXT,
			payment_at TIMESTAMP,
			payment_ref TEXT,
			payment_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
			payment_requested BOOLEAN NOT NULL DEFAULT FALSE,
			payment_requested_at TIMESTAMP,
			email_status TEXT,
			email_message_id TEXT,
			email_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (unit_id, report_month)
		)
	`)
	log.Println(err)
	return err
}
