package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPageCommand(appFn func() *app, f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Manage diary pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	create := &cobra.Command{
		Use:   "new [date]",
		Short: "Create a page, carrying open tasks from the latest earlier page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			diaryID, err := a.diaryID(f)
			if err != nil {
				return err
			}
			date, err := a.dateArg(args, 0)
			if err != nil {
				return err
			}

			result, err := a.engine.CreatePageWithRollover(cmd.Context(), diaryID, date)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(color.Output, "created page %d for %s\n", result.Page.ID, model.FormatDate(result.Page.Date))
			if result.SourceDate != nil {
				_, _ = faint.Fprintf(color.Output, "carried %d open task(s) from %s\n", result.Carried, model.FormatDate(*result.SourceDate))
			}
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the diary's pages by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			diaryID, err := a.diaryID(f)
			if err != nil {
				return err
			}
			pages, err := a.store.ListPagesByDiary(cmd.Context(), diaryID)
			if err != nil {
				return err
			}
			printPages(pages)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show [date]",
		Short: "Show a page and its tasks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			diaryID, err := a.diaryID(f)
			if err != nil {
				return err
			}
			date, err := a.dateArg(args, 0)
			if err != nil {
				return err
			}
			page, err := a.store.GetPageByDate(cmd.Context(), diaryID, date)
			if err != nil {
				return err
			}
			withTasks, err := a.store.GetPageWithTasks(cmd.Context(), page.ID)
			if err != nil {
				return err
			}
			printPageWithTasks(withTasks)
			return nil
		},
	}

	copyCmd := &cobra.Command{
		Use:   "copy <source-date> [target-date]",
		Short: "Copy a page's open tasks onto another date (today by default)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			diaryID, err := a.diaryID(f)
			if err != nil {
				return err
			}
			source, err := a.dateArg(args, 0)
			if err != nil {
				return err
			}
			target, err := a.dateArg(args, 1)
			if err != nil {
				return err
			}

			result, err := a.engine.CopyOpenTasks(cmd.Context(), diaryID, source, target)
			if err != nil {
				return err
			}
			if result.NothingToCopy {
				_, _ = fmt.Fprintln(color.Output, "no open tasks to copy")
				return nil
			}
			_, _ = fmt.Fprintf(color.Output, "copied %d task(s) onto page %d\n", result.Copied, result.TargetPageID)
			return nil
		},
	}

	cmd.AddCommand(create, list, show, copyCmd)
	return cmd
}

// dateArg parses args[i] as a date, defaulting to today when it is absent
// or "today".
func (a *app) dateArg(args []string, i int) (time.Time, error) {
	if i >= len(args) || strings.EqualFold(args[i], "today") {
		return a.engine.Today(), nil
	}
	return model.ParseDate(args[i])
}
