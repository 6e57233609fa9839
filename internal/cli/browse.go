package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/St1cky1/taskboard/internal/client"
	"github.com/St1cky1/taskboard/internal/dashboard"
	"github.com/St1cky1/taskboard/internal/entity"
)

const browseHelp = `commands:
  n            next page
  p            previous page
  g <page>     go to page
  f <status>   filter: all, Pending, Completed
  s <size>     tasks per page
  a            add a task
  e <#>        edit task by row number
  d <#>        delete task by row number (admins)
  r            reload
  q            quit`

// browseCmd is an interactive task list on top of dashboard.Dashboard.
type browseCmd struct{}

func (c *browseCmd) Name() string                 { return "browse" }
func (c *browseCmd) Synopsis() string             { return "Page through tasks interactively" }
func (c *browseCmd) Usage() string                { return "taskctl browse" }
func (c *browseCmd) NeedsAuth() bool              { return true }
func (c *browseCmd) RegisterFlags(*flag.FlagSet) {}

func (c *browseCmd) Run(ctx context.Context, app *App, _ []string) int {
	notifier := &streamNotifier{out: app.Out, err: app.Err}
	d := dashboard.New(app.Client, notifier, &promptConfirmer{app: app}, app.Session.IsAdmin())

	if err := d.Refresh(ctx); err != nil {
		return exitFor(err)
	}

	for {
		render(app.Out, d)
		line, ok := prompt(app, "> ")
		if !ok {
			return ExitOK
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		var err error
		switch cmd {
		case "":
			continue
		case "q", "quit":
			return ExitOK
		case "n":
			err = d.Next(ctx)
		case "p":
			err = d.Prev(ctx)
		case "g":
			n, convErr := strconv.Atoi(arg)
			if convErr != nil {
				notifier.Error("page must be a number")
				continue
			}
			err = d.GoTo(ctx, n)
		case "f":
			err = d.SetFilter(ctx, arg)
		case "s":
			n, convErr := strconv.Atoi(arg)
			if convErr != nil {
				notifier.Error("page size must be a number")
				continue
			}
			err = d.SetPageSize(ctx, n)
		case "r":
			err = d.Refresh(ctx)
		case "a":
			d.OpenCreate()
			err = submitDialog(ctx, app, d)
		case "e":
			task, found := rowTask(d, arg)
			if !found {
				notifier.Error("no such row")
				continue
			}
			d.OpenEdit(task)
			err = submitDialog(ctx, app, d)
		case "d":
			if !d.CanDelete() {
				notifier.Error("Only admins can delete tasks")
				continue
			}
			task, found := rowTask(d, arg)
			if !found {
				notifier.Error("no such row")
				continue
			}
			err = d.Delete(ctx, task.ID)
		case "h", "?", "help":
			fmt.Fprintln(app.Out, browseHelp)
			continue
		default:
			notifier.Error("unknown command, type h for help")
			continue
		}

		if errors.Is(err, client.ErrUnauthenticated) {
			return ExitAuth
		}
	}
}

func render(w io.Writer, d *dashboard.Dashboard) {
	fmt.Fprintf(w, "\nFilter: %s\n", d.Filter())
	printTasks(w, &entity.TaskPage{
		Tasks:       d.Tasks(),
		CurrentPage: d.Page(),
		TotalPages:  d.TotalPages(),
		TotalTasks:  d.TotalTasks(),
	}, rowOffset(d.Page(), d.PageSize()))
}

// rowTask resolves a row number as printed by render.
func rowTask(d *dashboard.Dashboard, arg string) (entity.Task, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return entity.Task{}, false
	}
	i := n - 1 - rowOffset(d.Page(), d.PageSize())
	tasks := d.Tasks()
	if i < 0 || i >= len(tasks) {
		return entity.Task{}, false
	}
	return tasks[i], true
}

// submitDialog fills the dialog form from stdin. Empty answers keep the
// current values when editing.
func submitDialog(ctx context.Context, app *App, d *dashboard.Dashboard) error {
	var form dashboard.Form
	if cur := d.Editing(); cur != nil {
		form = dashboard.Form{Title: cur.Title, Description: cur.Description, Status: cur.Status}
	} else {
		form.Status = entity.StatusPending
	}

	for _, field := range []struct {
		label string
		value *string
	}{
		{"Title", &form.Title},
		{"Description", &form.Description},
	} {
		answer, ok := prompt(app, fmt.Sprintf("%s [%s]: ", field.label, *field.value))
		if !ok {
			d.CloseDialog()
			return nil
		}
		if answer != "" {
			*field.value = answer
		}
	}
	status, ok := prompt(app, fmt.Sprintf("Status [%s]: ", form.Status))
	if !ok {
		d.CloseDialog()
		return nil
	}
	if status != "" {
		form.Status = entity.TaskStatus(status)
	}

	err := d.Submit(ctx, form)
	// a failed submit keeps the dialog open; the terminal has no use for it
	d.CloseDialog()
	return err
}

// prompt writes label and reads one trimmed line. ok is false on EOF.
func prompt(app *App, label string) (string, bool) {
	fmt.Fprint(app.Out, label)
	line, err := app.In.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

type promptConfirmer struct {
	app *App
}

func (c *promptConfirmer) Confirm(question string) bool {
	answer, ok := prompt(c.app, question+" [y/N] ")
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

type streamNotifier struct {
	out, err io.Writer
}

func (n *streamNotifier) Success(msg string) { fmt.Fprintln(n.out, msg) }
func (n *streamNotifier) Error(msg string)   { fmt.Fprintf(n.err, "error: %s\n", msg) }

func exitFor(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthenticated):
		return ExitAuth
	case errors.As(err, &apiErr) && apiErr.Status < 500:
		return ExitUser
	default:
		return ExitBackend
	}
}
