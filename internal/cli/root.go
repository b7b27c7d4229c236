package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"batonsched/internal/logging"
)

var (
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the batonsched CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "batonsched",
		Short: "batonsched runs cooperative task scenarios under a priority round robin scheduler",
		Long: "batonsched spawns the tasks of a YAML scenario on real goroutines, lets exactly one of\n" +
			"them run at a time and prints every scheduling decision.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logging.Options{
				Level:  flagLogLevel,
				Format: flagLogFormat,
				Debug:  flagDebug,
				Out:    cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML file overriding the scenario's scheduler settings")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
	)

	return root
}
