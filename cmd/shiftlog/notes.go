package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shiftlog/internal/app"
	"shiftlog/internal/domain"
	"shiftlog/internal/server"
	"shiftlog/internal/view"
)

func (c *cli) noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Capture and manage shift notes",
		Long:  "Notes can always be added during a shift. Editing and deleting require the notes to be unlocked with 'shiftlog note lock'.",
	}
	cmd.AddCommand(c.noteAddCmd())
	cmd.AddCommand(c.noteEditCmd())
	cmd.AddCommand(c.noteDeleteCmd())
	cmd.AddCommand(c.noteLockCmd())
	cmd.AddCommand(c.noteListCmd())
	return cmd
}

func (c *cli) noteAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a note to the current shift",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				n, ok := s.Engine.AddNote(ctx, strings.Join(args, " "))
				if c.jsonOutput() {
					res := server.Result{Applied: ok, View: view.Build(s.Engine.State(), s.Engine.Clock.Now())}
					if ok {
						res.Note = &n
					}
					return printJSON(cmd.OutOrStdout(), res)
				}
				return c.report(cmd, s, ok, "Note added ("+n.ID+").", "No note added: start a shift and give some text.")
			})
		},
	}
}

// resolveNote accepts a note id or its 1-based position in the list.
func resolveNote(st domain.State, ref string) (string, bool) {
	s := st.CurrentShift
	if s == nil {
		return "", false
	}
	if i := s.NoteIndex(ref); i >= 0 {
		return ref, true
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.Notes) {
		return s.Notes[n-1].ID, true
	}
	return "", false
}

func (c *cli) noteEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id|#> <text...>",
		Short: "Replace the text of a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return fmt.Errorf("note text is empty")
			}
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				st := s.Engine.State()
				if !st.CanEditNotes() {
					return c.report(cmd, s, false, "", "Notes are locked; unlock them with 'shiftlog note lock'.")
				}
				id, found := resolveNote(st, args[0])
				if !found {
					return fmt.Errorf("note %q not found", args[0])
				}
				return c.report(cmd, s, s.Engine.UpdateNote(ctx, id, text), "Note updated.", "Note unchanged.")
			})
		},
	}
}

func (c *cli) noteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|#>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				st := s.Engine.State()
				if !st.CanEditNotes() {
					return c.report(cmd, s, false, "", "Notes are locked; unlock them with 'shiftlog note lock'.")
				}
				id, found := resolveNote(st, args[0])
				if !found {
					return fmt.Errorf("note %q not found", args[0])
				}
				return c.report(cmd, s, s.Engine.DeleteNote(ctx, id), "Note deleted.", "Note unchanged.")
			})
		},
	}
}

func (c *cli) noteLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Toggle the notes lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				ok := s.Engine.ToggleNotesLock(ctx)
				msg := "Notes unlocked."
				if ok && s.Engine.State().CurrentShift.NotesLocked {
					msg = "Notes locked."
				}
				return c.report(cmd, s, ok, msg, "No shift is running.")
			})
		},
	}
}

func (c *cli) noteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes on the current shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				var notes []domain.Note
				if cur := s.Engine.State().CurrentShift; cur != nil {
					notes = cur.Notes
				}
				if c.jsonOutput() {
					if notes == nil {
						notes = []domain.Note{}
					}
					return printJSON(cmd.OutOrStdout(), notes)
				}
				renderNotes(cmd.OutOrStdout(), notes)
				return nil
			})
		},
	}
}
