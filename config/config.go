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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5401"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"O2_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"O2_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"O2_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"O2_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"O2_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"O2_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"O2_DATA_SOURCE_DNS"`
}

// ReconciliationConfig carries the tolerances the payout matcher and the
// reservation comparator run with. All values have working defaults tuned
// against real bank statements; override them per deployment.
type ReconciliationConfig struct {
	// MoneyTolerance is the max amount drift, in currency units, for two
	// amounts to count as the same payment.
	MoneyTolerance float64 `json:"money_tolerance" envconfig:"O2_RECON_MONEY_TOLERANCE"`
	// SentOffsetDays estimates the bank sent date backwards from the
	// channel's arriving-by promise when no payout date is reported.
	SentOffsetDays int `json:"sent_offset_days" envconfig:"O2_RECON_SENT_OFFSET_DAYS"`
	// PreDays and PostDays bound the bank entry search window around the
	// expected sent date.
	PreDays  int `json:"pre_days" envconfig:"O2_RECON_PRE_DAYS"`
	PostDays int `json:"post_days" envconfig:"O2_RECON_POST_DAYS"`
	// MaxApproxCandidates caps the payout suggestions attached to an
	// unmatched bank deposit.
	MaxApproxCandidates int `json:"max_approx_candidates" envconfig:"O2_RECON_MAX_APPROX_CANDIDATES"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"O2_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"O2_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"O2_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName    string               `json:"project_name" envconfig:"O2_PROJECT_NAME"`
	Server         ServerConfig         `json:"server"`
	DataSource     DataSourceConfig     `json:"data_source"`
	Reconciliation ReconciliationConfig `json:"reconciliation"`
	Notification   Notification         `json:"notification"`
	RateLimit      RateLimitConfig      `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("o2", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called backoffice.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Backoffice Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	cnf.Reconciliation.applyDefaults()

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	// Set default cleanup interval if not specified
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
		log.Printf("Warning: Rate limit cleanup interval not specified. Setting default value: %d seconds", defaultCleanup)
	}

	return nil
}

func (r *ReconciliationConfig) applyDefaults() {
	if r.MoneyTolerance <= 0 {
		r.MoneyTolerance = 1.00
	}
	if r.SentOffsetDays <= 0 {
		r.SentOffsetDays = 9
	}
	if r.PreDays <= 0 {
		r.PreDays = 14
	}
	if r.PostDays <= 0 {
		r.PostDays = 10
	}
	if r.MaxApproxCandidates <= 0 {
		r.MaxApproxCandidates = 3
	}
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.Reconciliation.applyDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
