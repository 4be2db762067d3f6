package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

// RootCmd is the base command of pwqualityctl.
var RootCmd = &cobra.Command{
	Use:   "pwqualityctl",
	Short: "Drive the pwquality password-change controller from a terminal",
	Long: `pwqualityctl drives the pwquality password-change controller from the
command line: interactive change conversations scored by an external
checker, effective policy inspection, and conversation store load
testing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(
		&configFile, "config", "",
		"config file (default is $HOME/.pwqualityctl.yaml)",
	)
	RootCmd.PersistentFlags().BoolP(
		"verbose", "v", false,
		"enable verbose (debug) logging",
	)

	if err := viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		log.WithError(err).Fatal("error binding verbose flag")
	}
}

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".pwqualityctl")
	}

	viper.SetEnvPrefix("pwquality")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("config", viper.ConfigFileUsed()).Debug("using config file")
	} else if configFile != "" {
		log.WithError(err).Error("error reading config file")
		os.Exit(1)
	}
}
