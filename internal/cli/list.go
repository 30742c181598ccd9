package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/me/pcontainer/pkg/model"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			resp, err := client.Get("/api/v1/containers")
			if err != nil {
				return fmt.Errorf("list containers: %w", err)
			}

			var data []model.ContainerInfo
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if len(data) == 0 {
				fmt.Fprintln(out, "No containers found.")
				return nil
			}

			fmt.Fprintf(out, "%-20s  %-8s  %-24s  %s\n", "CONTAINER", "MEMBERS", "RUNNING", "QUEUE")
			fmt.Fprintf(out, "%-20s  %-8s  %-24s  %s\n", "---------", "-------", "-------", "-----")
			for _, c := range data {
				queue := lo.Map(c.Members, func(m model.MemberInfo, _ int) string { return string(m.Caller) })
				fmt.Fprintf(out, "%-20d  %-8d  %-24s  %s\n", c.ID, len(c.Members), c.Running, strings.Join(queue, " "))
			}
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <container_id>",
		Short: "Show the member queue of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			id, err := model.ParseContainerID(args[0])
			if err != nil {
				return fmt.Errorf("invalid container id %q: %w", args[0], err)
			}

			resp, err := client.Get(fmt.Sprintf("/api/v1/containers/%d", id))
			if err != nil {
				return fmt.Errorf("get container: %w", err)
			}

			var info model.ContainerInfo
			if err := json.Unmarshal(resp.Data, &info); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Fprintf(out, "Container: %d\n", info.ID)
			fmt.Fprintf(out, "  Running: %s\n", info.Running)
			fmt.Fprintln(out, "  Queue:")
			for _, m := range info.Members {
				fmt.Fprintf(out, "    %d. %s (%s)\n", m.Position+1, m.Caller, m.State)
			}
			return nil
		},
	}
}
