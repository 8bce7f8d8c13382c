package cmd

import (
	"os"
	"time"

	"github.com/movi-app/movi/core/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "movi",
	Short: "Movie discovery and review backend",
	Long: `movi serves the movie catalog, reviews, watchlists and profiles over a JSON API.
Aggregate listings are cached in Valkey (or in memory) and read-only tools are exposed over MCP.`,
}

var envFile string

func init() {
	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment | example: --env-file=.env.local")
	rootCmd.PersistentFlags().StringP("port", "p", "", "change port number with --port <number> | example: --port=8080")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "hide or displaying log with --debug <true/false> | example: --debug=true")
	rootCmd.PersistentFlags().String("db-driver", "", "relational store driver (postgres or sqlite) | example: --db-driver=postgres")
	rootCmd.PersistentFlags().Bool("valkey", false, "cache aggregates in Valkey instead of process memory | example: --valkey=true")
}

// initEnvConfig loads .env, the environment and the flags that were set, in that
// order of increasing precedence.
func initEnvConfig() {
	v := config.NewViper(envFile)

	flags := rootCmd.PersistentFlags()
	bindings := map[string]string{
		"app_port":       "port",
		"app_debug":      "debug",
		"db_driver":      "db-driver",
		"valkey_enabled": "valkey",
	}
	for key, flag := range bindings {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			_ = v.BindPFlag(key, f)
		}
	}

	cfg, err := config.LoadConfig(v)
	if err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stdout)
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.WithFields(logrus.Fields(cfg.Settings())).Debug("[CONFIG] effective settings")
	if cfg.UsesDefaultSecret() {
		logrus.Warn("[CONFIG] JWT_SECRET is not set; tokens are signed with the built-in development secret")
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
