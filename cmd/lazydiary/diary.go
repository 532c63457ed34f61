package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Joseda-hg/lazydiary/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDiaryCommand(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Manage diaries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var makeDefault bool
	create := &cobra.Command{
		Use:   "create <owner>",
		Short: "Create a diary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			diary, err := a.store.CreateDiary(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if makeDefault || a.cfg.DefaultDiary == 0 {
				a.cfg.DefaultDiary = diary.ID
				if err := config.Save(a.cfgPath, a.cfg); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(color.Output, "created diary %d for %s\n", diary.ID, diary.OwnerName)
			return nil
		},
	}
	create.Flags().BoolVar(&makeDefault, "default", false, "make the new diary the default")

	list := &cobra.Command{
		Use:   "list",
		Short: "List diaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			diaries, err := appFn().store.ListDiaries(cmd.Context())
			if err != nil {
				return err
			}
			printDiaries(diaries)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <owner>",
		Short: "Change a diary's owner name",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			diary, err := appFn().store.UpdateDiaryOwner(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(color.Output, "diary %d now belongs to %s\n", diary.ID, diary.OwnerName)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a diary that has no pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			a := appFn()
			if err := a.store.DeleteDiary(cmd.Context(), id); err != nil {
				return err
			}
			if a.cfg.DefaultDiary == id {
				a.cfg.DefaultDiary = 0
				if err := config.Save(a.cfgPath, a.cfg); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(color.Output, "deleted diary %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, list, rename, remove)
	return cmd
}

func parseIDArg(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
