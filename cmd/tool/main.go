// Command tool runs one-off maintenance tasks against the nutrition database.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/baechuer/nutrition-service/internal/config"
	"github.com/baechuer/nutrition-service/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "tool",
	Short:        "Maintenance commands for the nutrition service database",
	SilenceUsage: true,
	Long: `Maintenance commands for the nutrition service database.

Available subcommands:
  schema  - Create missing tables
  seed    - Install canonical roles, units and meal types
  roles   - List roles

The database is taken from --dsn, or from DB_ADDR (a ./.env file is honoured).`,
}

const dsnFlag = "dsn"

var dbFlags = map[string]cobraflags.Flag{
	dsnFlag: &cobraflags.StringFlag{
		Name:       dsnFlag,
		Value:      "",
		Usage:      "PostgreSQL connection string (defaults to $DB_ADDR)",
		Persistent: true,
	},
}

// openDB is swapped in tests.
var openDB = config.NewDB

func init() {
	cobraflags.RegisterMap(rootCmd, dbFlags)
	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newRolesCommand())
}

func main() {
	logger.Init()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func connect() (*sql.DB, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	dsn := strings.TrimSpace(dbFlags[dsnFlag].GetString())
	if dsn == "" {
		dsn = os.Getenv("DB_ADDR")
	}
	if dsn == "" {
		return nil, fmt.Errorf("no database: pass --%s or set DB_ADDR", dsnFlag)
	}
	debug, _ := strconv.ParseBool(os.Getenv("DB_DEBUG"))
	return openDB(dsn, debug)
}
