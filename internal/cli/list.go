package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"quickdo/internal/task"
	"quickdo/internal/view"
)

func (a *app) listCmd() *cobra.Command {
	var category, search, sortKey, layout string
	c := &cobra.Command{
		Use:   "list",
		Short: "Print tasks grouped by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			q := view.Query{
				Category: s.cfg.DefaultCategory,
				Sort:     view.ParseSortKey(s.cfg.DefaultSort),
				Search:   search,
				Locale:   locale(s.cfg),
			}
			if cmd.Flags().Changed("category") {
				q.Category = category
			}
			if cmd.Flags().Changed("sort") {
				q.Sort = view.ParseSortKey(sortKey)
			}
			if !cmd.Flags().Changed("view") {
				layout = s.cfg.DefaultView
			}

			tasks := view.Apply(s.store.Tasks(), q)
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			switch strings.ToLower(layout) {
			case "grid":
				return printGrid(out, view.Grid(tasks))
			case "list", "", "calendar":
				return printList(out, view.List(tasks, a.now()))
			default:
				return fmt.Errorf("unknown view %q (want list or grid)", layout)
			}
		},
	}
	c.Flags().StringVar(&category, "category", "", "Only show this category (\"all\" for every category)")
	c.Flags().StringVar(&search, "search", "", "Case-insensitive text match on title, description and tags")
	c.Flags().StringVar(&sortKey, "sort", "", "Sort by date, priority, created or alphabetical")
	c.Flags().StringVar(&layout, "view", "list", "Layout: list or grid")
	return c
}

func printList(w io.Writer, lv view.ListView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range lv.Sections {
		if len(s.Tasks) == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s (%d)\n", s.Bucket, len(s.Tasks))
		for _, t := range s.Tasks {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", t.ID, checkbox(t), t.Title, t.Priority, dueLabel(t))
		}
	}
	return tw.Flush()
}

func printGrid(w io.Writer, cards []view.Card) error {
	for i, c := range cards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		mark := " "
		if c.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %s  #%s\n    %s\n", mark, c.Title, c.ID, c.Meta)
		if len(c.Badges) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(c.Badges, " "))
		}
	}
	return nil
}

func (a *app) calendarCmd() *cobra.Command {
	var month string
	c := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month grid with the tasks due each day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			year, mon := now.Year(), now.Month()
			if month != "" {
				at, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid --month %q: want YYYY-MM", month)
				}
				year, mon = at.Year(), at.Month()
			}

			s, err := a.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			printCalendar(cmd.OutOrStdout(), view.Calendar(s.store.Tasks(), year, mon, now))
			return nil
		},
	}
	c.Flags().StringVar(&month, "month", "", "Month to show as YYYY-MM (default current month)")
	return c
}

func printCalendar(w io.Writer, m view.Month) {
	fmt.Fprintln(w, m.Title())
	fmt.Fprintln(w, " Su  Mo  Tu  We  Th  Fr  Sa")
	for _, week := range m.Weeks() {
		var line strings.Builder
		for _, d := range week {
			switch {
			case d.Day == 0:
				line.WriteString("    ")
			case d.Today:
				fmt.Fprintf(&line, "[%2d]", d.Day)
			case len(d.Tasks) > 0:
				fmt.Fprintf(&line, " %2d*", d.Day)
			default:
				fmt.Fprintf(&line, " %2d ", d.Day)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
	for _, d := range m.Days {
		for _, t := range d.Tasks {
			fmt.Fprintf(w, "%s %s %s\n", d.Date, checkbox(t), t.Title)
		}
	}
}

func checkbox(t task.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

func dueLabel(t task.Task) string {
	if t.DueDate == "" {
		return "-"
	}
	return strings.TrimSpace(t.DueDate + " " + t.DueTime)
}
