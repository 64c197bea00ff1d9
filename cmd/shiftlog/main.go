package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shiftlog/internal/app"
)

const longHelp = `shiftlog records a single patrol shift: start and end the shift, run up to
five patrols in order, tally engagements, street drinker contacts and ASB
incidents, and capture notes. Ending a shift archives it as the last completed
shift and prints its summary.
- Workspace: the .shiftlog directory holding the database; shiftlog.yml and .env sit beside it.
- Patrols: numbered 1-5; each starts only after the previous one has ended.
- Notes: capture is always allowed; edits and deletes need the notes unlocked (shiftlog note lock).
- Event log: every change is journaled, view with 'shiftlog log tail'.`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cli carries the per-invocation settings shared by every command.
type cli struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix("SHIFTLOG")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "shiftlog",
		Short:         "Shift and patrol logbook",
		Long:          longHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.LoadEnv(c.workspace())
		},
	}
	root.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	root.PersistentFlags().Bool("json", false, "output JSON")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides shiftlog.yml")
	root.PersistentFlags().String("backend", "", "storage backend (sqlite, file, memory); overrides shiftlog.yml")
	_ = c.v.BindPFlag("workspace", root.PersistentFlags().Lookup("workspace"))
	_ = c.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))
	_ = c.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = c.v.BindPFlag("storage.backend", root.PersistentFlags().Lookup("backend"))

	root.AddCommand(c.shiftCmd())
	root.AddCommand(c.patrolCmd())
	root.AddCommand(c.countCmd())
	root.AddCommand(c.noteCmd())
	root.AddCommand(c.summaryCmd())
	root.AddCommand(c.resetCmd())
	root.AddCommand(c.stateCmd())
	root.AddCommand(c.logCmd())
	root.AddCommand(c.configCmd())
	root.AddCommand(c.serveCmd())
	return root
}

func (c *cli) workspace() string {
	return c.v.GetString("workspace")
}

func (c *cli) jsonOutput() bool {
	return c.v.GetBool("json")
}

func (c *cli) options() app.Options {
	return app.Options{
		Workspace: c.workspace(),
		LogLevel:  c.v.GetString("log.level"),
		Backend:   c.v.GetString("storage.backend"),
	}
}

// withSession opens the workspace for the duration of fn.
func (c *cli) withSession(cmd *cobra.Command, fn func(context.Context, *app.Session) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := app.Open(ctx, c.options())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(ctx, s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
