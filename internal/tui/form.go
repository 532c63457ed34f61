package tui

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/lazydiary/internal/model"
)

type formField struct {
	Label string
	Value string
}

const (
	fieldTitle = iota
	fieldStatus
)

const (
	maxTitleLength  = 255
	maxStatusLength = 50
)

// statusOrder is the cycle offered by the status field. Any other status
// typed elsewhere is kept until the user cycles away from it.
var statusOrder = []string{model.StatusPending, "in-progress", model.StatusCompleted, model.StatusDeleted}

type taskInput struct {
	Title  string
	Status string
}

func buildFormFields(row *model.InstanceRow) []formField {
	fields := []formField{
		{Label: "Title"},
		{Label: "Status (space/←→)"},
	}

	if row == nil {
		fields[fieldStatus].Value = statusOrder[0]
		return fields
	}

	fields[fieldTitle].Value = row.Title
	fields[fieldStatus].Value = row.Status
	return fields
}

func parseFormFields(fields []formField) (taskInput, error) {
	input := taskInput{
		Title:  strings.TrimSpace(fields[fieldTitle].Value),
		Status: strings.TrimSpace(fields[fieldStatus].Value),
	}

	if input.Title == "" {
		return taskInput{}, fmt.Errorf("title is required")
	}
	if len([]rune(input.Title)) > maxTitleLength {
		return taskInput{}, fmt.Errorf("title is longer than %d characters", maxTitleLength)
	}
	if input.Status == "" {
		return taskInput{}, fmt.Errorf("status is required")
	}
	if len([]rune(input.Status)) > maxStatusLength {
		return taskInput{}, fmt.Errorf("status is longer than %d characters", maxStatusLength)
	}
	return input, nil
}

func cycleStatus(current string, delta int) string {
	index := -1
	for i, status := range statusOrder {
		if strings.EqualFold(status, current) {
			index = i
			break
		}
	}
	if index == -1 {
		return statusOrder[0]
	}
	return statusOrder[(index+delta+len(statusOrder))%len(statusOrder)]
}
