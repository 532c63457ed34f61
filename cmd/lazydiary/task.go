package main

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTaskCommand(appFn func() *app, f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var (
		addStatus string
		addDate   string
	)
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Start a new task on a page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			diaryID, err := a.diaryID(f)
			if err != nil {
				return err
			}
			var dateArgs []string
			if addDate != "" {
				dateArgs = []string{addDate}
			}
			date, err := a.dateArg(dateArgs, 0)
			if err != nil {
				return err
			}
			page, err := a.store.GetPageByDate(cmd.Context(), diaryID, date)
			if err != nil {
				return fmt.Errorf("page %s: %w", model.FormatDate(date), err)
			}
			_, instance, err := a.store.CreateTask(cmd.Context(), page.ID, strings.Join(args, " "), addStatus)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(color.Output, "added task %d (lineage %d) to %s\n",
				instance.ID, instance.LineageID, model.FormatDate(page.Date))
			return nil
		},
	}
	add.Flags().StringVar(&addStatus, "status", model.StatusPending, "initial status")
	add.Flags().StringVar(&addDate, "date", "", "page date (YYYY-MM-DD), today by default")

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a task's status, migrating it to today when it sits on a past page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			result, err := appFn().engine.MigrateStatus(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			if result.Relocated {
				_, _ = fmt.Fprintf(color.Output, "task %d migrated to today as task %d: %s\n",
					id, result.InstanceID, colorStatus(args[1]))
				return nil
			}
			_, _ = fmt.Fprintf(color.Output, "task %d: %s\n", result.InstanceID, colorStatus(args[1]))
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "title <id> <title>",
		Short: "Change a task's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			instance, err := appFn().store.UpdateInstanceTitle(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(color.Output, "task %d: %s\n", instance.ID, instance.Title)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task instance from its page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err := appFn().store.DeleteInstance(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(color.Output, "removed task %d\n", id)
			return nil
		},
	}

	var byLineage bool
	history := &cobra.Command{
		Use:   "history <id>",
		Short: "Show every page a task has appeared on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			a := appFn()
			var entries []model.HistoryEntry
			if byLineage {
				var lineage model.TaskLineage
				if lineage, err = a.store.GetLineage(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = title.Fprintf(color.Output, "%s", lineage.Title)
				_, _ = faint.Fprintf(color.Output, " - started %s as %s\n",
					lineage.CreatedAt.Format("2006-01-02 15:04"), lineage.Status)
				entries, err = a.engine.GetHistoryByLineage(cmd.Context(), id)
			} else {
				entries, err = a.engine.GetHistoryByInstance(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			printInstanceRows(entries)
			return nil
		},
	}
	history.Flags().BoolVar(&byLineage, "lineage", false, "treat the id as a lineage id")

	var (
		searchPage  int64
		searchDate  string
		searchTitle string
	)
	search := &cobra.Command{
		Use:   "search",
		Short: "Search task instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := model.SearchFilter{Title: searchTitle}
			if searchPage > 0 {
				filter.PageID = &searchPage
			}
			if searchDate != "" {
				date, err := model.ParseDate(searchDate)
				if err != nil {
					return err
				}
				filter.PageDate = &date
			}
			rows, err := appFn().store.SearchInstances(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printInstanceRows(rows)
			return nil
		},
	}
	search.Flags().Int64Var(&searchPage, "page", 0, "only tasks on this page id")
	search.Flags().StringVar(&searchDate, "date", "", "only tasks on pages with this date (YYYY-MM-DD)")
	search.Flags().StringVar(&searchTitle, "title", "", "only tasks whose title contains this text")

	cmd.AddCommand(add, status, rename, remove, history, search)
	return cmd
}
