package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/me/pcontainer/pkg/model"
	"github.com/spf13/cobra"
)

var errNoCaller = errors.New("no caller identity: pass --caller or set PCCTL_CALLER")

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <container_id>",
		Short: "Join a container, waiting while queued",
		Long: "Join a container, creating it when absent. The command returns once the\n" +
			"caller is the running member. Without --caller a fresh identity is generated.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseContainerID(args[0])
			if err != nil {
				return fmt.Errorf("invalid container id %q: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			if client.Caller == "" {
				client.Caller = "pc_" + uuid.New().String()[:8]
				fmt.Fprintf(out, "Caller: %s\n", client.Caller)
			}

			res, err := client.Join(id)
			printResult(out, res, err)
			return err
		},
	}
}

func newYieldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "yield",
		Short: "Hand the running slot to the next member and wait to be resumed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if client.Caller == "" {
				return errNoCaller
			}
			res, err := client.Yield()
			printResult(cmd.OutOrStdout(), res, err)
			return err
		},
	}
}

func newLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the current container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if client.Caller == "" {
				return errNoCaller
			}
			res, err := client.Leave()
			printResult(cmd.OutOrStdout(), res, err)
			return err
		},
	}
}

// printResult prints any answered verb, including failed ones.
func printResult(out io.Writer, res model.VerbResult, err error) {
	var verr *VerbError
	if err != nil && !errors.As(err, &verr) {
		return
	}
	fmt.Fprintf(out, "%-6s caller=%s", res.Verb, res.Caller)
	if res.Verb == model.VerbJoin {
		fmt.Fprintf(out, " container=%d", res.ContainerID)
	}
	if res.State != "" {
		fmt.Fprintf(out, " state=%s", res.State)
	}
	fmt.Fprintf(out, " code=%s(%d)\n", res.CodeName, res.Code)
}
