// Package cmd defines the folioassist command tree.
package cmd

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ChristianNyamekye/folioassist/internal/config"
	"github.com/ChristianNyamekye/folioassist/internal/observability"
)

var (
	cfgFile string
	verbose bool

	cliLogger *zap.Logger

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folioassist",
	Short: "Chat backend for a portfolio website",
	Long: `folioassist answers visitor questions about Christian's background and
projects through a rate-limited, sanitized chat endpoint backed by an
OpenAI-compatible provider.

Use the subcommands to perform specific operations.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	cliLogger = observability.NewCLILogger(verbose)

	// A local .env is convenient in development; absence is not an error.
	if err := godotenv.Load(); err == nil && verbose {
		cliLogger.Debug("loaded environment from .env")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FOLIOASSIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			cliLogger.Debug("using config file", zap.String("path", viper.ConfigFileUsed()))
		}
	} else {
		// A missing config file is fine, defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			cliLogger.Warn("error reading config file", zap.Error(err))
		}
	}

	config.SetDefaults(viper.GetViper())
}

// loadConfig materializes the merged configuration for a command run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}
