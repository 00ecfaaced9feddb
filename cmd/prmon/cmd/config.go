package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wangxiyuan/pr-notification/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage prmon settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var genConfigSubCmd = &cobra.Command{
	Use:   "gen",
	Short: "generate config",
	Long:  `generates a new config in the default location if it doesn't exist`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Generate(); err != nil {
			return err
		}
		logrus.Info("config generated")
		logrus.Info("to view it, run: prmon config view")
		logrus.Info("to edit it, run: prmon config edit")
		return nil
	},
}

var viewConfigSubCmd = &cobra.Command{
	Use:   "view",
	Short: "view config",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := rootConfig.String()
		if err != nil {
			return err
		}
		fmt.Println(conf)
		return nil
	},
}

var editConfigSubCmd = &cobra.Command{
	Use:   "edit",
	Short: "edit config",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.OpenOnEditor()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(genConfigSubCmd)
	configCmd.AddCommand(viewConfigSubCmd)
	configCmd.AddCommand(editConfigSubCmd)
}
