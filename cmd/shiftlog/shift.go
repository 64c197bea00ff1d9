package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shiftlog/internal/app"
	"shiftlog/internal/domain"
	"shiftlog/internal/engine"
	"shiftlog/internal/server"
	"shiftlog/internal/summary"
	"shiftlog/internal/view"
)

// report prints the outcome of a mutation: the fresh view as JSON, or msg
// when applied and refused otherwise.
func (c *cli) report(cmd *cobra.Command, s *app.Session, applied bool, msg, refused string) error {
	w := cmd.OutOrStdout()
	if c.jsonOutput() {
		return printJSON(w, server.Result{Applied: applied, View: view.Build(s.Engine.State(), s.Engine.Clock.Now())})
	}
	if applied {
		fmt.Fprintln(w, msg)
	} else {
		fmt.Fprintln(w, refused)
	}
	return nil
}

func (c *cli) shiftCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "shift", Short: "Start, end and inspect the shift"}
	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a new shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				ok := s.Engine.StartShift(ctx)
				msg := ""
				if ok {
					cur := s.Engine.State().CurrentShift
					msg = fmt.Sprintf("Shift started at %s (id %s).", clockTime(&cur.StartTime), cur.ID)
				}
				return c.report(cmd, s, ok, msg, "A shift is already running.")
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End the running shift and show its summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				if !s.Engine.EndShift(ctx) {
					return c.report(cmd, s, false, "", "No shift is running.")
				}
				if c.jsonOutput() {
					return c.report(cmd, s, true, "", "")
				}
				renderSummary(cmd.OutOrStdout(), summary.Summarize(s.Engine.State().LastCompletedShift))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current shift, patrols and counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				v := view.Build(s.Engine.State(), s.Engine.Clock.Now())
				if c.jsonOutput() {
					return printJSON(cmd.OutOrStdout(), v)
				}
				renderView(cmd.OutOrStdout(), v)
				return nil
			})
		},
	})
	return cmd
}

func (c *cli) patrolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patrol",
		Short: "Start or end patrols 1-5",
		Long:  "Patrols run one at a time and in order: patrol N starts only after patrol N-1 has ended.",
	}
	for _, action := range []struct {
		verb string
		do   func(*engine.Engine, context.Context, int) bool
	}{
		{"start", (*engine.Engine).StartPatrol},
		{"end", (*engine.Engine).EndPatrol},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   action.verb + " <1-5>",
			Short: strings.ToUpper(action.verb[:1]) + action.verb[1:] + " a patrol",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid patrol number %q", args[0])
				}
				pos, err := domain.ParsePatrolNumber(n)
				if err != nil {
					return err
				}
				return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
					ok := action.do(s.Engine, ctx, pos)
					return c.report(cmd, s, ok,
						fmt.Sprintf("Patrol %d %sed.", n, strings.TrimSuffix(action.verb, "e")),
						fmt.Sprintf("Patrol %d cannot %s now.", n, action.verb))
				})
			},
		})
	}
	return cmd
}

func (c *cli) countCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Adjust the shift counters",
		Long:  "Counters: engagements, street-drinkers, asb. They only change while a shift is running and never go below zero.",
	}
	for _, action := range []struct {
		verb  string
		short string
		do    func(*engine.Engine, context.Context, domain.CounterName) bool
	}{
		{"inc", "Add one", (*engine.Engine).Increment},
		{"dec", "Remove one", (*engine.Engine).Decrement},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   action.verb + " <counter>",
			Short: action.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name, err := domain.ParseCounterName(args[0])
				if err != nil {
					return err
				}
				return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
					ok := action.do(s.Engine, ctx, name)
					return c.report(cmd, s, ok,
						fmt.Sprintf("%s: %d", name.Label(), s.Engine.Counter(name)),
						fmt.Sprintf("%s unchanged (%d).", name.Label(), s.Engine.Counter(name)))
				})
			},
		})
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <counter> <value>",
		Short: "Set a counter; negative values store 0",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := domain.ParseCounterName(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q", args[1])
			}
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				ok := s.Engine.SetCounter(ctx, name, value)
				return c.report(cmd, s, ok,
					fmt.Sprintf("%s: %d", name.Label(), s.Engine.Counter(name)),
					"No shift is running.")
			})
		},
	})
	return cmd
}

func (c *cli) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the summary of the last completed shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				sum := summary.Summarize(s.Engine.State().LastCompletedShift)
				if c.jsonOutput() {
					return printJSON(cmd.OutOrStdout(), sum)
				}
				renderSummary(cmd.OutOrStdout(), sum)
				return nil
			})
		},
	}
}

func (c *cli) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the current and last completed shift",
		Long:  "Clears all shift data after confirmation. The event journal is kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				confirm := func(context.Context, domain.State) bool {
					return yes || promptYes(cmd.InOrStdin(), cmd.ErrOrStderr(), "Clear the current and last completed shift? [y/N] ")
				}
				ok := s.Engine.ResetAllData(ctx, confirm)
				return c.report(cmd, s, ok, "All shift data cleared.", "Nothing reset.")
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func promptYes(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprint(out, question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
