package main

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
	title = color.New(color.Bold, color.Underline)
)

func newTable(headers ...string) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	row := make([]any, 0, len(headers))
	for _, header := range headers {
		row = append(row, bold.Sprint(header))
	}
	tbl.AddRow(row...)
	return tbl
}

func printTable(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func colorStatus(status string) string {
	switch {
	case strings.EqualFold(status, model.StatusCompleted):
		return green.Sprint(status)
	case strings.EqualFold(status, model.StatusDeleted):
		return red.Sprint(status)
	default:
		return status
	}
}

func printDiaries(diaries []model.Diary) {
	tbl := newTable("ID", "Owner", "Created")
	for _, diary := range diaries {
		tbl.AddRow(diary.ID, diary.OwnerName, faint.Sprint(diary.CreatedAt.Format("2006-01-02 15:04")))
	}
	printTable(tbl)
}

func printPages(pages []model.Page) {
	tbl := newTable("ID", "Date")
	for _, page := range pages {
		tbl.AddRow(page.ID, model.FormatDate(page.Date))
	}
	printTable(tbl)
}

func printPageWithTasks(page model.PageWithTasks) {
	_, _ = title.Fprintf(color.Output, "%s", model.FormatDate(page.Page.Date))
	_, _ = faint.Fprintf(color.Output, " - page %d\n", page.Page.ID)
	printTasks(page.Tasks)
}

func printTasks(tasks []model.TaskInstance) {
	tbl := newTable("ID", "Lineage", "Status", "Title")
	for _, task := range tasks {
		tbl.AddRow(task.ID, task.LineageID, colorStatus(task.Status), task.Title)
	}
	printTable(tbl)
}

func printInstanceRows(rows []model.InstanceRow) {
	tbl := newTable("ID", "Page", "Date", "Lineage", "Status", "Title")
	for _, row := range rows {
		tbl.AddRow(row.InstanceID, row.PageID, model.FormatDate(row.PageDate), row.LineageID, colorStatus(row.Status), row.Title)
	}
	printTable(tbl)
}
