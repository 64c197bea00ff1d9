package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shiftlog/internal/app"
	"shiftlog/internal/config"
	"shiftlog/internal/domain"
	"shiftlog/internal/persist"
	"shiftlog/internal/server"
)

func (c *cli) stateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "state", Short: "Export or import the persisted state blob"}

	var exportFile string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the state as JSON (stdout when --file is omitted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				data, err := persist.Encode(s.Engine.State())
				if err != nil {
					return err
				}
				if exportFile == "" || exportFile == "-" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				return os.WriteFile(exportFile, append(data, '\n'), 0o644)
			})
		},
	}
	export.Flags().StringVar(&exportFile, "file", "", "output file")
	cmd.AddCommand(export)

	var importFile string
	imp := &cobra.Command{
		Use:   "import",
		Short: "Replace the state with a JSON blob; malformed fields are repaired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if importFile == "" || importFile == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(importFile)
			}
			if err != nil {
				return err
			}
			st, err := persist.Decode(data)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				s.Engine.Replace(ctx, st)
				return c.report(cmd, s, true, describeImport(s.Engine.State()), "")
			})
		},
	}
	imp.Flags().StringVar(&importFile, "file", "", "input file (stdin when omitted)")
	cmd.AddCommand(imp)
	return cmd
}

func describeImport(st domain.State) string {
	switch {
	case st.IsEmpty():
		return "State imported: empty."
	case st.CurrentShift != nil && st.LastCompletedShift != nil:
		return fmt.Sprintf("State imported: current shift %s, last completed %s.", st.CurrentShift.ID, st.LastCompletedShift.ID)
	case st.CurrentShift != nil:
		return fmt.Sprintf("State imported: current shift %s.", st.CurrentShift.ID)
	default:
		return fmt.Sprintf("State imported: last completed %s.", st.LastCompletedShift.ID)
	}
}

func (c *cli) logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "The journal of every change: shifts, patrols, counters, notes, resets and imports.",
	}
	var n int
	var evtType, entityKind string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show recent events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				evts, err := s.Repo.LatestEvents(ctx, n, evtType, entityKind)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					if evts == nil {
						evts = []domain.Event{}
					}
					return printJSON(cmd.OutOrStdout(), evts)
				}
				renderEvents(cmd.OutOrStdout(), evts)
				return nil
			})
		},
	}
	tail.Flags().IntVar(&n, "n", 20, "number of events")
	tail.Flags().StringVar(&evtType, "type", "", "event type filter")
	tail.Flags().StringVar(&entityKind, "entity-kind", "", "entity kind (shift, patrol, note, state)")
	log.AddCommand(tail)
	return log
}

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Show or create shiftlog.yml"}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(c.workspace())
			if err != nil {
				return err
			}
			if lvl := c.v.GetString("log.level"); lvl != "" {
				cfg.Log.Level = lvl
			}
			if b := c.v.GetString("storage.backend"); b != "" {
				cfg.Storage.Backend = b
			}
			if c.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), cfg)
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	})
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default shiftlog.yml into the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(c.workspace())
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := os.MkdirAll(c.workspace(), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.withSession(cmd, func(_ context.Context, s *app.Session) error {
				addr := s.Config.Server.Addr
				if v := c.v.GetString("server.addr"); v != "" {
					addr = v
				}
				basePath := s.Config.Server.BasePath
				if v := c.v.GetString("server.base_path"); v != "" {
					basePath = v
				}
				s.Engine.OnChange = func(st domain.State) {
					s.Log.Debug("state changed", zap.String("shift_state", string(st.ShiftState())))
				}
				handler, err := server.New(server.Config{
					Engine:   s.Engine,
					Repo:     s.Repo,
					BasePath: basePath,
					Log:      s.Log.Named("http"),
				})
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
				s.Log.Info("serving shiftlog API",
					zap.String("url", "http://"+addr+basePath),
					zap.String("openapi", basePath+"/openapi.json"),
					zap.String("docs", "/docs"))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from shiftlog.yml server.addr)")
	cmd.Flags().String("base-path", "", "API base path (default from shiftlog.yml server.base_path)")
	_ = c.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = c.v.BindPFlag("server.base_path", cmd.Flags().Lookup("base-path"))
	return cmd
}
