// Package config wires viper configuration for the iris CLI.
package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/irisnotes/iris-notes/pkg/service"
)

var cfgFile string

// InitConfig loads the config file and environment. The default location is
// ~/.config/irisnotes/config.yaml; the database lives in the same directory
// so everything stays in one place.
func InitConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	configDir := filepath.Join(home, ".config", "irisnotes")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("IRISNOTES")

	viper.SetDefault("data_dir", configDir)
	viper.SetDefault("editor", os.Getenv("EDITOR"))

	// Missing config file is fine; defaults and env cover local use.
	_ = viper.ReadInConfig()
}

// InitService builds the service from the loaded configuration.
func InitService() (*service.Service, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if viper.GetBool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := &service.Config{
		DataDir: viper.GetString("data_dir"),
		Editor:  viper.GetString("editor"),
	}
	return service.New(cfg, logger)
}

// AddGlobalFlags registers the flags every subcommand inherits.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/irisnotes/config.yaml)")
	cmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	_ = viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
}
