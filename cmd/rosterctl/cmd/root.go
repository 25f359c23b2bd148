package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alimgiray/roster/pkg/client"
	"github.com/alimgiray/roster/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rosterctl",
	Short: "Constituent roster CLI",
	Long: `rosterctl talks to a running roster server. It uploads CSV or XLSX
rosters one row at a time, downloads the roster, and adds, edits, lists or
removes people.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(viper.GetString("log-level"))
		logger.SetOutput(cmd.ErrOrStderr())
	},
}

// Execute runs the root command with signal-aware context
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("server", "http://localhost:5001", "roster server base URL")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request timeout (0 means 30s)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	for _, name := range []string{"server", "timeout", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("Failed to bind %s flag: %v", name, err))
		}
	}

	rootCmd.AddCommand(newAddCmd(), newUpdateCmd(), newImportCmd(), newExportCmd(), newListCmd(), newDeleteCmd())
}

// initConfig reads .env files and ROSTER_* environment variables
func initConfig() {
	_ = godotenv.Load()

	viper.SetEnvPrefix("roster")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func newClient() *client.Client {
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return client.New(viper.GetString("server"), timeout)
}
