package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"shiftlog/internal/clock"
	"shiftlog/internal/domain"
	"shiftlog/internal/summary"
	"shiftlog/internal/view"
)

func clockTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("15:04")
}

func msDuration(ms int64) string {
	return clock.FormatDuration(time.Duration(ms) * time.Millisecond)
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	return tw
}

func renderView(w io.Writer, v view.View) {
	cur := v.Current
	if cur == nil {
		fmt.Fprintln(w, "No shift running.")
		if !v.LastCompleted.Empty {
			fmt.Fprintf(w, "Last completed shift: %s\n", v.LastCompleted.Sentence)
		}
		return
	}
	start := cur.StartTime
	fmt.Fprintf(w, "Shift %s (%s), started %s, %s, elapsed %s\n", cur.ID, cur.Date, clockTime(&start), cur.State, msDuration(cur.ElapsedMs))

	tw := newTable(w)
	tw.AppendHeader(table.Row{"Patrol", "State", "Start", "End", "Duration"})
	for _, p := range cur.Patrols {
		dur := "-"
		if p.State != domain.PatrolPending {
			dur = msDuration(p.DurationMs)
		}
		tw.AppendRow(table.Row{p.Index, p.State, clockTime(p.StartTime), clockTime(p.EndTime), dur})
	}
	tw.Render()

	ct := newTable(w)
	ct.AppendHeader(table.Row{"Counter", "Value"})
	for _, c := range cur.Counters {
		ct.AppendRow(table.Row{c.Label, c.Value})
	}
	ct.Render()

	lock := "locked"
	if !cur.NotesLocked {
		lock = "unlocked"
	}
	fmt.Fprintf(w, "Notes: %d (%s)\n", len(cur.Notes), lock)
}

func renderNotes(w io.Writer, notes []domain.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes.")
		return
	}
	tw := newTable(w)
	tw.AppendHeader(table.Row{"#", "Time", "Note", "ID"})
	for i, n := range notes {
		ts := n.Timestamp
		tw.AppendRow(table.Row{i + 1, clockTime(&ts), n.Text, n.ID})
	}
	tw.Render()
}

func renderSummary(w io.Writer, s summary.Summary) {
	if s.Empty {
		fmt.Fprintln(w, s.Sentence)
		return
	}
	fmt.Fprintf(w, "Shift %s (%s) %s-%s, %s\n", s.ShiftID, s.Date, clockTime(s.StartTime), clockTime(s.EndTime), msDuration(s.ShiftDurationMs))
	if len(s.Patrols) > 0 {
		tw := newTable(w)
		tw.AppendHeader(table.Row{"Patrol", "Start", "End", "Duration"})
		for _, p := range s.Patrols {
			tw.AppendRow(table.Row{p.Index, clockTime(p.StartTime), clockTime(p.EndTime), msDuration(p.DurationMs)})
		}
		tw.AppendFooter(table.Row{"Total", "", "", msDuration(s.TotalPatrolMs)})
		tw.Render()
	}
	fmt.Fprintln(w, s.Sentence)
}

func renderEvents(w io.Writer, evts []domain.Event) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Time", "Type", "Entity", "Payload"})
	for _, e := range evts {
		tw.AppendRow(table.Row{e.ID, e.TS, e.Type, e.EntityKind + ":" + e.EntityID, e.Payload})
	}
	tw.Render()
}
