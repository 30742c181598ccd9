package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/me/pcontainer/pkg/model"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var (
		container string
		caller    string
		verb      string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List journal events, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			q := url.Values{}
			if container != "" {
				q.Set("container_id", container)
			}
			if caller != "" {
				q.Set("caller", caller)
			}
			if verb != "" {
				q.Set("verb", verb)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			path := "/api/v1/events"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			resp, err := client.Get(path)
			if err != nil {
				return fmt.Errorf("list events: %w", err)
			}

			var events []model.Event
			if err := json.Unmarshal(resp.Data, &events); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No events found.")
				return nil
			}

			fmt.Fprintf(out, "%-24s  %-5s  %-10s  %-20s  %-10s  %s\n", "AT", "VERB", "CONTAINER", "CALLER", "OUTCOME", "CODE")
			for _, ev := range events {
				fmt.Fprintf(out, "%-24s  %-5s  %-10d  %-20s  %-10s  %s\n",
					ev.At.Format(time.RFC3339), ev.Verb, ev.ContainerID, ev.Caller, ev.Outcome, ev.Status)
			}

			if resp.Pagination != nil && resp.Pagination.HasMore {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(events), resp.Pagination.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&container, "container", "", "Filter by container id")
	cmd.Flags().StringVar(&caller, "by", "", "Filter by caller")
	cmd.Flags().StringVar(&verb, "verb", "", "Filter by verb (JOIN, YIELD, LEAVE)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum events to show")
	return cmd
}
