package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/model"
)

func selectionPrefix(selected, focused bool) string {
	switch {
	case selected && focused:
		return ">"
	case selected:
		return "*"
	default:
		return " "
	}
}

func formatPageLabel(page model.Page, today time.Time) string {
	label := model.FormatDate(page.Date)
	switch {
	case page.Date.Equal(today):
		return label + " (today)"
	case page.Date.After(today):
		return label + " (planned)"
	default:
		return label
	}
}

func statusMarker(status string) string {
	switch {
	case strings.EqualFold(status, model.StatusDeleted):
		return "[-]"
	case strings.EqualFold(status, model.StatusCompleted):
		return "[x]"
	default:
		return "[ ]"
	}
}

func formatTaskSummary(row model.InstanceRow) string {
	return fmt.Sprintf("%s %s | %s", statusMarker(row.Status), row.Title, row.Status)
}
