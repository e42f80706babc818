package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quickdo/internal/command"
	"quickdo/internal/task"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task from quick-add text",
		Long: `Add parses priority ("high priority"), category and tags ("#work"),
and due dates ("today", "tomorrow") out of the text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			n := s.dispatcher.Dispatch(cmd.Context(), command.QuickAdd{Text: strings.Join(args, " ")})
			return report(cmd, n)
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between completed and open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := task.ParseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			if _, ok := s.store.Get(id); !ok {
				return fmt.Errorf("%w: %s", task.ErrNotFound, id)
			}
			return report(cmd, s.dispatcher.Dispatch(cmd.Context(), command.Toggle{ID: id}))
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	var yes bool
	c := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := task.ParseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			s, err := a.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			if _, ok := s.store.Get(id); !ok {
				return fmt.Errorf("%w: %s", task.ErrNotFound, id)
			}
			return report(cmd, s.dispatcher.Dispatch(cmd.Context(), command.Delete{ID: id, Confirmed: true}))
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return c
}
