package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/SebastinST/tms-backend/internal/audit"
	"github.com/SebastinST/tms-backend/internal/domain"
)

// Renderer formats tasks and related entities for the terminal.
type Renderer struct {
	pretty bool
}

// New creates a renderer; pretty enables color and decoration.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Task formats a full task view with its note trail.
func (r *Renderer) Task(task *domain.Task) string {
	var sb strings.Builder

	if r.pretty {
		fmt.Fprintf(&sb, "%s %s %s\n", StateIcon(string(task.State)),
			color.CyanString(task.ID), task.Name)
	} else {
		fmt.Fprintf(&sb, "[%s] %s %s\n", task.State, task.ID, task.Name)
	}

	fmt.Fprintf(&sb, "  state:   %s\n", task.State)
	fmt.Fprintf(&sb, "  app:     %s\n", task.AppAcronym)
	if task.Plan != "" {
		fmt.Fprintf(&sb, "  plan:    %s\n", task.Plan)
	}
	fmt.Fprintf(&sb, "  owner:   %s\n", task.Owner)
	fmt.Fprintf(&sb, "  creator: %s\n", task.Creator)
	fmt.Fprintf(&sb, "  created: %s\n", task.CreateDate.Format("2006-01-02 15:04"))
	if task.Description != "" {
		fmt.Fprintf(&sb, "  desc:    %s\n", Truncate(task.Description, 70))
	}

	if len(task.Notes) > 0 {
		sb.WriteString("\nNOTES:\n")
		sb.WriteString(r.Trail(task.Notes, task.Name))
	}

	return sb.String()
}

// Tasks formats a task list, one line per task.
func (r *Renderer) Tasks(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return "No tasks found"
	}

	var sb strings.Builder
	for _, t := range tasks {
		icon := StateIcon(string(t.State))
		plan := ""
		if t.Plan != "" {
			plan = " [" + t.Plan + "]"
		}
		if r.pretty {
			fmt.Fprintf(&sb, "%s %s %s%s %s\n", icon, color.CyanString(t.ID),
				t.Name, plan, color.HiBlackString(t.Owner))
		} else {
			fmt.Fprintf(&sb, "[%s] %s %s%s (%s)\n", t.State, t.ID, t.Name, plan, t.Owner)
		}
	}
	return sb.String()
}

// Trail formats a note trail, newest first.
func (r *Renderer) Trail(trail audit.Trail, taskName string) string {
	var sb strings.Builder
	for _, e := range trail {
		ts := e.Timestamp.Format(time.RFC3339)
		if r.pretty {
			ts = color.HiBlackString(e.Timestamp.Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(&sb, "  %s %s\n", ts, e.Summary(taskName))
		if e.Text != "" {
			fmt.Fprintf(&sb, "    └─ %s\n", Truncate(e.Text, 70))
		}
	}
	return sb.String()
}

// Applications formats an application list with permits.
func (r *Renderer) Applications(apps []*domain.Application) string {
	if len(apps) == 0 {
		return "No applications found"
	}

	var sb strings.Builder
	for _, a := range apps {
		name := a.Acronym
		if r.pretty {
			name = color.CyanString(a.Acronym)
		}
		fmt.Fprintf(&sb, "%s (rnumber %d)\n", name, a.RNumber)
		fmt.Fprintf(&sb, "  permits: create=%s open=%s todo=%s doing=%s done=%s\n",
			orNone(a.PermitCreate), orNone(a.PermitOpen), orNone(a.PermitToDo),
			orNone(a.PermitDoing), orNone(a.PermitDone))
	}
	return sb.String()
}

// Plans formats a plan list.
func (r *Renderer) Plans(plans []*domain.Plan) string {
	if len(plans) == 0 {
		return "No plans found"
	}

	var sb strings.Builder
	for _, p := range plans {
		fmt.Fprintf(&sb, "%s/%s", p.AppAcronym, p.Name)
		if p.StartDate != "" || p.EndDate != "" {
			fmt.Fprintf(&sb, " (%s → %s)", p.StartDate, p.EndDate)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
