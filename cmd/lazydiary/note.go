package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newNoteCommand(appFn func() *app, f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Show the diary's note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			diaryID, err := a.diaryID(f)
			if err != nil {
				return err
			}
			note, err := a.store.GetNote(cmd.Context(), diaryID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(color.Output, note.Description)
			_, _ = faint.Fprintf(color.Output, "updated %s\n", note.UpdatedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <text>",
		Short: "Replace the diary's note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			diaryID, err := a.diaryID(f)
			if err != nil {
				return err
			}
			if _, err := a.store.UpsertNote(cmd.Context(), diaryID, strings.Join(args, " ")); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(color.Output, "note saved")
			return nil
		},
	}

	cmd.AddCommand(set)
	return cmd
}
