package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func addReadCommands(root *cobra.Command, opts *options) {
	get := func(use, short, endpoint string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return performGet(cmd, opts, endpoint)
			},
		}
	}
	grouped := func(use, short, endpoint string) *cobra.Command {
		var group string
		cmd := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := endpoint
				if group != "" {
					path += "?group=" + url.QueryEscape(group)
				}
				return performGet(cmd, opts, path)
			},
		}
		cmd.Flags().StringVarP(&group, "group", "g", "", "Only show this group")
		return cmd
	}

	root.AddCommand(
		grouped("standings", "Show ranked group tables", "/api/v1/standings"),
		grouped("fixtures", "Show group fixtures and results", "/api/v1/fixtures"),
		get("view", "Show the full derived view", "/api/v1/view"),
		get("bracket", "Show the knockout bracket", "/api/v1/bracket"),
		get("podium", "Show final placements", "/api/v1/podium"),
		get("stats", "Show tournament statistics", "/api/v1/stats"),
		get("snapshot", "Show the raw input state", "/api/v1/snapshot"),
		get("health", "Show server metrics", "/healthz"),
		&cobra.Command{
			Use:   "profile NAME",
			Short: "Show a participant's group stage record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return performGet(cmd, opts, "/api/v1/profile/"+url.PathEscape(args[0]))
			},
		},
		&cobra.Command{
			Use:   "edit ID",
			Short: "Show the outcome of a submitted edit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return performGet(cmd, opts, "/api/v1/edits/"+url.PathEscape(args[0]))
			},
		},
	)
}

func addEditCommands(root *cobra.Command, opts *options) {
	score := &cobra.Command{
		Use:   "score GROUP FIXTURE SET SIDE VALUE",
		Short: "Enter a group fixture score (FIXTURE is 0-based; SET and SIDE are 1-based)",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := atoi(args[1:4], "fixture", "set", "side")
			if err != nil {
				return err
			}
			return performSubmit(cmd, opts, "/api/v1/scores", map[string]any{
				"group": args[0], "fixture": nums[0], "set": nums[1], "side": nums[2], "value": args[4],
			})
		},
	}

	ko := &cobra.Command{
		Use:   "knockout",
		Short: "Knockout stage edits",
	}
	ko.AddCommand(
		&cobra.Command{
			Use:   "score KEY VALUE",
			Short: "Enter a knockout score, e.g. semi121 21",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return performSubmit(cmd, opts, "/api/v1/knockout/scores", map[string]any{"key": args[0], "value": args[1]})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Clear every knockout score",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return performSubmit(cmd, opts, "/api/v1/knockout/reset", nil)
			},
		},
	)

	participant := func(action string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"action": action, "group": args[0], "name": args[len(args)-1]}
			if action == "move" {
				body["target"] = args[1]
			}
			return performSubmit(cmd, opts, "/api/v1/participants", body)
		}
	}
	player := &cobra.Command{
		Use:   "player",
		Short: "Roster edits",
	}
	player.AddCommand(
		&cobra.Command{Use: "add GROUP NAME", Short: "Add a participant", Args: cobra.ExactArgs(2), RunE: participant("add")},
		&cobra.Command{Use: "remove GROUP NAME", Short: "Remove a participant", Args: cobra.ExactArgs(2), RunE: participant("remove")},
		&cobra.Command{Use: "move FROM TO NAME", Short: "Move a participant", Args: cobra.ExactArgs(3), RunE: participant("move")},
	)

	root.AddCommand(score, ko, player)
}

func atoi(args []string, names ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", names[i], a, err)
		}
		out[i] = n
	}
	return out, nil
}

func performGet(cmd *cobra.Command, opts *options, endpoint string) error {
	body, err := newClient(opts).do(cmd.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return printBody(cmd.OutOrStdout(), body)
}

func performSubmit(cmd *cobra.Command, opts *options, endpoint string, body any) error {
	st, err := newClient(opts).submit(cmd.Context(), endpoint, body, opts.wait)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	switch st.State {
	case "rejected":
		return fmt.Errorf("edit %s rejected: %s", st.ID, st.Error)
	case "applied":
		fmt.Fprintf(w, "edit %s applied (version %d)\n", st.ID, st.Version)
	default:
		fmt.Fprintf(w, "edit %s accepted\n", st.ID)
	}
	return nil
}

// printBody indents JSON bodies and passes anything else through.
func printBody(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, err = w.Write(body)
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
