package cli

import (
	"log/slog"
	"os"

	"github.com/me/pcontainer/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagCaller    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking PCCTL_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("PCCTL_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the pcctl CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pcctl",
		Short: "pcctl drives the pcontainer cooperative scheduler",
		Long: "pcctl joins, yields and leaves pcontainer containers and inspects their queues.\n" +
			"Every verb acts on behalf of --caller (or PCCTL_CALLER).",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = NewClient(flagServer, logger)
			client.Caller = flagCaller
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "pcontainer server URL (or PCCTL_SERVER env)")
	root.PersistentFlags().StringVar(&flagCaller, "caller", os.Getenv("PCCTL_CALLER"), "Caller identity (or PCCTL_CALLER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newJoinCmd(),
		newYieldCmd(),
		newLeaveCmd(),
		newListCmd(),
		newShowCmd(),
		newEventsCmd(),
	)

	return root
}
