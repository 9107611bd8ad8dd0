package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/tasklist"
)

var descriptionFlagAliases = map[string]string{
	"desc": "description",
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}

func (c *cli) listCmd() *cobra.Command {
	var filter, search, sortBy string
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List tasks",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, s := tasklist.Filter(filter), tasklist.SortBy(sortBy)
			if !f.Valid() {
				return fmt.Errorf("invalid --filter %q (all, completed, incomplete)", filter)
			}
			if !s.Valid() {
				return fmt.Errorf("invalid --sort %q (dueDate, priority, title)", sortBy)
			}
			ctrl, err := c.mounted(cmd)
			if err != nil {
				return err
			}
			ctrl.Apply(func(st tasklist.State) tasklist.State {
				return st.WithFilter(f).WithSearch(search).WithSort(s)
			})
			done, total := ctrl.State().Counts()
			fmt.Fprint(cmd.OutOrStdout(), renderTasks(ctrl.Visible(), done, total, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(tasklist.FilterAll), "all, completed or incomplete")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive match on title or description")
	cmd.Flags().StringVar(&sortBy, "sort", string(tasklist.SortDueDate), "dueDate, priority or title")
	return cmd
}

type taskFlags struct {
	title       string
	description string
	due         string
	priority    string
	completed   bool
}

func (tf *taskFlags) bind(flags *pflag.FlagSet, withTitle bool) {
	if withTitle {
		flags.StringVar(&tf.title, "title", "", "new title")
	}
	flags.StringVarP(&tf.description, "description", "d", "", "description")
	flags.StringVar(&tf.due, "due", "", "due date: dd/MM/yyyy HH:mm, dd/MM/yyyy, RFC3339, today or tomorrow")
	flags.StringVarP(&tf.priority, "priority", "p", "", "low, medium or high")
	setFlagAliases(flags, descriptionFlagAliases)
}

// apply overlays only the flags the user actually set.
func (tf *taskFlags) apply(flags *pflag.FlagSet, form tasklist.FormData, now time.Time) (tasklist.FormData, error) {
	if flags.Changed("title") {
		form.Title = tf.title
	}
	if flags.Changed("description") {
		form.Description = tf.description
	}
	if flags.Changed("due") {
		due, err := parseDue(tf.due, now)
		if err != nil {
			return form, err
		}
		form.DueDate = due
	}
	if flags.Changed("priority") {
		p := consts.Priority(strings.ToLower(tf.priority))
		if !p.Valid() {
			return form, fmt.Errorf("invalid --priority %q (low, medium, high)", tf.priority)
		}
		form.Priority = p
	}
	if flags.Changed("completed") {
		form.IsCompleted = tf.completed
	}
	return form, nil
}

func (c *cli) addCmd() *cobra.Command {
	tf := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task, due today with medium priority unless told otherwise",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := c.mounted(cmd)
			if err != nil {
				return err
			}
			now := time.Now()
			form, err := tf.apply(cmd.Flags(), tasklist.DefaultForm(now), now)
			if err != nil {
				return err
			}
			form.Title = strings.Join(args, " ")
			ctrl.ShowForm()
			ctrl.SetForm(form)
			if err := ctrl.SubmitForm(cmd.Context()); err != nil {
				return formFailure(ctrl, err)
			}
			tasks := ctrl.State().Tasks
			created := tasks[len(tasks)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s\n", created.ID, created.Title)
			return nil
		},
	}
	tf.bind(cmd.Flags(), false)
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	tf := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := c.mounted(cmd)
			if err != nil {
				return err
			}
			task, ok := ctrl.State().Find(id)
			if !ok {
				return fmt.Errorf("task #%d not found", id)
			}
			ctrl.StartEdit(task)
			form, err := tf.apply(cmd.Flags(), ctrl.State().FormData, time.Now())
			if err != nil {
				ctrl.CancelEdit()
				return err
			}
			ctrl.SetForm(form)
			if err := ctrl.SubmitForm(cmd.Context()); err != nil {
				return formFailure(ctrl, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d\n", id)
			return nil
		},
	}
	tf.bind(cmd.Flags(), true)
	cmd.Flags().BoolVar(&tf.completed, "completed", false, "mark completed (--completed=false to reopen)")
	return cmd
}

func (c *cli) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "complete <id>...",
		Short:   "Mark tasks completed",
		Aliases: []string{"done"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, api, err := c.session()
			if err != nil {
				return err
			}
			tok, ok := st.Token()
			if !ok {
				return explain(tasklist.ErrLoginRequired)
			}
			api.SetToken(tok)
			return eachID(args, func(id int64) error {
				if err := api.CompleteTask(cmd.Context(), id); err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed #%d\n", id)
				return nil
			})
		},
	}
}

func (c *cli) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>...",
		Short: "Flip the completed flag of tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := c.mounted(cmd)
			if err != nil {
				return err
			}
			return eachID(args, func(id int64) error {
				if err := ctrl.ToggleComplete(cmd.Context(), id); err != nil {
					return fmt.Errorf("toggle #%d: %w", id, explain(err))
				}
				t, _ := ctrl.State().Find(id)
				state := "open"
				if t.IsCompleted {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%d is now %s\n", id, state)
				return nil
			})
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Short:   "Delete tasks",
		Aliases: []string{"rm"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := c.mounted(cmd)
			if err != nil {
				return err
			}
			return eachID(args, func(id int64) error {
				if err := ctrl.DeleteTask(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete #%d: %w", id, explain(err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d\n", id)
				return nil
			})
		},
	}
}

// formFailure prefers the inline form message the controller recorded.
func formFailure(ctrl *tasklist.Controller, err error) error {
	if msg := ctrl.State().FormError; msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return explain(err)
}

func eachID(args []string, fn func(int64) error) error {
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return err
		}
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

var dueLayouts = []string{"02/01/2006 15:04", "02/01/2006", "2006-01-02 15:04", "2006-01-02"}

// parseDue accepts the display format, ISO dates, RFC3339 and two keywords, in local time.
func parseDue(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	y, m, d := now.Date()
	switch strings.ToLower(raw) {
	case "today":
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	case "tomorrow":
		return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --due %q, expected dd/MM/yyyy HH:mm", raw)
}
