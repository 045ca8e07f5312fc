package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/coda/extract"
)

var force bool

// initCmd: coda init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the built-in languages and grammar",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := initConfigurationFile(cfgFile, force)
		if err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("Configuration file created: %s\n", path)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) (string, error) {
	if configurationPath == "" {
		configurationPath = extract.DefaultConfigPath
	}
	if !force {
		if _, err := os.Stat(configurationPath); err == nil {
			return configurationPath, fmt.Errorf("%s already exists, use --force to overwrite it", configurationPath)
		}
	}
	return configurationPath, extract.WriteConfig(configurationPath, extract.DefaultConfig())
}
