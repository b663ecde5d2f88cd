package main

import (
	"os"

	"github.com/Abraxas-365/taskboard/pkg/config"
	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Collaborative task board with checklist sync and chat",
	Long: `taskboard serves the task API and the realtime hub, and ships two
terminal clients: "board" edits checklists with debounced sync, "chat" joins
the room's chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			logx.SetLevel(logx.ParseLevel(lvl))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
}

// loadConfig reads the file named by --config plus TASKBOARD_* overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
