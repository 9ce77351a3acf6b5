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

package main

import (
	"fmt"
	"log"
	"os"

	backoffice "github.com/owners2/backoffice"
	"github.com/owners2/backoffice/config"
	"github.com/owners2/backoffice/database"
	"github.com/owners2/backoffice/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Backoffice represents the CLI application, encapsulating the root Cobra command.
type Backoffice struct {
	cmd *cobra.Command
}

// backofficeInstance holds the service instance and its configuration for use
// by the subcommands.
type backofficeInstance struct {
	service *backoffice.Backoffice
	cnf     *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the service before running
// any command.
func preRun(app *backofficeInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("backoffice.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupBackoffice(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.service = service
		app.cnf = cnf

		return nil
	}
}

// setupBackoffice connects the datasource and builds the service on top of it.
func setupBackoffice(cfg *config.Configuration) (*backoffice.Backoffice, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	service, err := backoffice.NewBackoffice(db)
	if err != nil {
		return nil, fmt.Errorf("error creating backoffice: %v", err)
	}
	return service, nil
}

// NewCLI creates the command-line interface for the backoffice application.
func NewCLI() *Backoffice {
	var configFile string
	b := &backofficeInstance{}

	var rootCmd = &cobra.Command{
		Use:   "backoffice",
		Short: "Property management back office",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./backoffice.json", "Configuration file for the backoffice")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(migrateCommands(b))
	rootCmd.AddCommand(configCommands())

	return &Backoffice{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w Backoffice) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
