package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wangxiyuan/pr-notification/config"
)

var (
	rootConfig *config.Config
	configFile string
	debug      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prmon",
	Short: "Watch GitHub pull request status from the terminal",
	Long: `prmon polls GitHub pull requests on a fixed interval and shows their
state, CI checks, review decision and mergeability.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}

		if configFile == "" {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			configFile = path
		}

		conf, err := config.Load(configFile)
		if err != nil {
			return err
		}
		rootConfig = conf
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersion(version string) {
	rootCmd.Version = version
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ~/.prmon/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "debug logging")
}
