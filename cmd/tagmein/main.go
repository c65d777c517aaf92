// tagmein is a command line client for the tagme.in scroll API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nyirongo2000/tagme.in/clients/go/tagmein"
	"github.com/Nyirongo2000/tagme.in/internal/hours"
	"github.com/Nyirongo2000/tagme.in/internal/scroll"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	var baseURL string
	client := func() *tagmein.Client { return tagmein.NewClient(baseURL) }

	root := &cobra.Command{
		Use:           "tagmein",
		Short:         "Post, vote and read tagme.in channels",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", envOr("TAGMEIN_URL", tagmein.DefaultURL), "server URL")

	root.AddCommand(newSendCommand(client))
	root.AddCommand(newSeekCommand(client))
	root.AddCommand(newChannelsCommand(client))
	root.AddCommand(newHourCommand())
	root.AddCommand(newHealthCommand(client))
	return root
}

func newSendCommand(client func() *tagmein.Client) *cobra.Command {
	var velocity float64
	cmd := &cobra.Command{
		Use:   "send <channel> <message>",
		Short: "Post a message, or vote on it by resending it with a velocity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Catch obvious mistakes before a round trip.
			if err := scroll.Validate(args[0], args[1], velocity); err != nil {
				return err
			}
			if err := client().Send(args[0], args[1], velocity); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}
	cmd.Flags().Float64VarP(&velocity, "velocity", "v", 0, "signed score change per hour, -10..10")
	return cmd
}

func newSeekCommand(client func() *tagmein.Client) *cobra.Command {
	var (
		hour   int64
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "seek [channel]",
		Short: "Show a channel's messages ranked by display score",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel := ""
			if len(args) == 1 {
				channel = args[0]
			}
			h := hours.At(time.Now())
			if cmd.Flags().Changed("hour") {
				h = hours.Hour(hour)
			}

			snap, err := client().Seek(channel, h)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), snap)
			}
			printRanked(cmd.OutOrStdout(), scroll.Rank(snap.Messages, time.Now().UnixMilli()))
			return nil
		},
	}
	cmd.Flags().Int64Var(&hour, "hour", 0, "hour bucket to read (default: current hour)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw snapshot")
	return cmd
}

func newChannelsCommand(client func() *tagmein.Client) *cobra.Command {
	var hour int64
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List popular channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := hours.At(time.Now())
			if cmd.Flags().Changed("hour") {
				h = hours.Hour(hour)
			}
			resp, err := client().Channels(h)
			if err != nil {
				return err
			}
			for _, ch := range resp.Channels {
				name := ch.Name
				if name == "" {
					name = "(home)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s\n", ch.Score, name)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&hour, "hour", 0, "hour bucket to rank (default: current hour)")
	return cmd
}

func newHourCommand() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "hour",
		Short: "Print the hour bucket for an instant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				t = parsed
			}
			h := hours.At(t)
			c := h.Calendar()
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  (month %d, day %d, hour %d)\n",
				h, h.Start().Format(time.RFC3339), c.Month, c.Day, c.HourOfDay)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "RFC 3339 instant (default: now)")
	return cmd
}

func newHealthCommand(client func() *tagmein.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().Health()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func printRanked(w io.Writer, ranked []scroll.Ranked) {
	for _, m := range ranked {
		sign := "+"
		if m.Record.Velocity < 0 {
			sign = ""
		}
		fmt.Fprintf(w, "%8.2f  %s%g/h  %s\n", m.Score, sign, m.Record.Velocity, m.Text)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
