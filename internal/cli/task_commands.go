package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/St1cky1/taskboard/internal/client"
	"github.com/St1cky1/taskboard/internal/entity"
)

type listCmd struct {
	page, limit int
	status      string
}

func (c *listCmd) Name() string     { return "list" }
func (c *listCmd) Synopsis() string { return "List your tasks, newest first" }
func (c *listCmd) Usage() string {
	return "taskctl list [--page N] [--limit N] [--status all|Pending|Completed]"
}
func (c *listCmd) NeedsAuth() bool { return true }

func (c *listCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.page, "page", 1, "")
	fs.IntVar(&c.limit, "limit", 10, "")
	fs.StringVar(&c.status, "status", entity.StatusAll, "")
}

func (c *listCmd) Run(ctx context.Context, app *App, args []string) int {
	if len(args) > 0 {
		return usageError(app, c, "unexpected arguments")
	}
	page, err := app.Client.ListTasks(ctx, client.ListOptions{Page: c.page, Limit: c.limit, Status: c.status})
	if err != nil {
		return fail(app, err)
	}
	printTasks(app.Out, page, rowOffset(page.CurrentPage, c.limit))
	return ExitOK
}

type showCmd struct{}

func (c *showCmd) Name() string                 { return "show" }
func (c *showCmd) Synopsis() string             { return "Show one task" }
func (c *showCmd) Usage() string                { return "taskctl show <id>" }
func (c *showCmd) NeedsAuth() bool              { return true }
func (c *showCmd) RegisterFlags(*flag.FlagSet) {}

func (c *showCmd) Run(ctx context.Context, app *App, args []string) int {
	if len(args) != 1 {
		return usageError(app, c, "task id required")
	}
	task, err := app.Client.GetTask(ctx, args[0])
	if err != nil {
		return fail(app, err)
	}
	printTask(app.Out, task)
	return ExitOK
}

type addCmd struct {
	title, description, status string
}

func (c *addCmd) Name() string     { return "add" }
func (c *addCmd) Synopsis() string { return "Create a task" }
func (c *addCmd) Usage() string {
	return "taskctl add --title <title> --desc <description> [--status Pending|Completed]"
}
func (c *addCmd) NeedsAuth() bool { return true }

func (c *addCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.status, "status", "", "")
}

func (c *addCmd) Run(ctx context.Context, app *App, args []string) int {
	title := c.title
	if title == "" && len(args) > 0 {
		title = strings.Join(args, " ")
	}
	task, err := app.Client.CreateTask(ctx, entity.CreateTaskRequest{
		Title:       title,
		Description: c.description,
		Status:      entity.TaskStatus(c.status),
	})
	if err != nil {
		return fail(app, err)
	}
	fmt.Fprintf(app.Out, "Created task %s\n", task.ID)
	return ExitOK
}

type editCmd struct {
	fs *flag.FlagSet

	title, description, status string
}

func (c *editCmd) Name() string     { return "edit" }
func (c *editCmd) Synopsis() string { return "Change title, description or status of a task" }
func (c *editCmd) Usage() string {
	return "taskctl edit <id> [--title <title>] [--desc <description>] [--status Pending|Completed]"
}
func (c *editCmd) NeedsAuth() bool { return true }

func (c *editCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.status, "status", "", "")
}

func (c *editCmd) Run(ctx context.Context, app *App, args []string) int {
	if len(args) != 1 {
		return usageError(app, c, "task id required")
	}

	// only flags given on the command line are sent
	var req entity.UpdateTaskRequest
	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			req.Title = &c.title
		case "desc":
			req.Description = &c.description
		case "status":
			status := entity.TaskStatus(c.status)
			req.Status = &status
		}
	})
	if req.Title == nil && req.Description == nil && req.Status == nil {
		return usageError(app, c, "nothing to change")
	}

	task, err := app.Client.UpdateTask(ctx, args[0], req)
	if err != nil {
		return fail(app, err)
	}
	printTask(app.Out, task)
	return ExitOK
}

type rmCmd struct {
	yes bool
}

func (c *rmCmd) Name() string     { return "rm" }
func (c *rmCmd) Synopsis() string { return "Delete a task (admins only)" }
func (c *rmCmd) Usage() string    { return "taskctl rm <id> [--yes]" }
func (c *rmCmd) NeedsAuth() bool  { return true }

func (c *rmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *rmCmd) Run(ctx context.Context, app *App, args []string) int {
	if len(args) != 1 {
		return usageError(app, c, "task id required")
	}
	if !c.yes && !(&promptConfirmer{app: app}).Confirm("Are you sure you want to delete this task?") {
		fmt.Fprintln(app.Out, "Cancelled")
		return ExitOK
	}

	if err := app.Client.DeleteTask(ctx, args[0]); err != nil {
		return fail(app, err)
	}
	fmt.Fprintln(app.Out, "Task removed successfully")
	return ExitOK
}

type historyCmd struct{}

func (c *historyCmd) Name() string                 { return "history" }
func (c *historyCmd) Synopsis() string             { return "Show the change log of a task" }
func (c *historyCmd) Usage() string                { return "taskctl history <id>" }
func (c *historyCmd) NeedsAuth() bool              { return true }
func (c *historyCmd) RegisterFlags(*flag.FlagSet) {}

func (c *historyCmd) Run(ctx context.Context, app *App, args []string) int {
	if len(args) != 1 {
		return usageError(app, c, "task id required")
	}
	history, err := app.Client.TaskHistory(ctx, args[0])
	if err != nil {
		return fail(app, err)
	}
	printHistory(app.Out, history)
	return ExitOK
}

type helpCmd struct {
	registry *Registry
}

func (c *helpCmd) Name() string                 { return "help" }
func (c *helpCmd) Synopsis() string             { return "Show commands" }
func (c *helpCmd) Usage() string                { return "taskctl help" }
func (c *helpCmd) NeedsAuth() bool              { return false }
func (c *helpCmd) RegisterFlags(*flag.FlagSet) {}

func (c *helpCmd) Run(_ context.Context, app *App, _ []string) int {
	fmt.Fprintln(app.Out, "usage: taskctl <command> [flags] [--server URL] [--config DIR]")
	fmt.Fprintln(app.Out)
	for _, cmd := range c.registry.All() {
		fmt.Fprintf(app.Out, "  %-9s %s\n", cmd.Name(), cmd.Synopsis())
	}
	return ExitOK
}
