package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/St1cky1/taskboard/internal/client"
	"github.com/St1cky1/taskboard/internal/entity"
)

const dateLayout = "Jan 2, 2006"

// fail prints err and picks the exit code for it.
func fail(app *App, err error) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthenticated):
		fmt.Fprintln(app.Err, "error: session expired or missing (run: taskctl signin)")
		return ExitAuth
	case errors.As(err, &apiErr):
		fmt.Fprintf(app.Err, "error: %s\n", apiErr.Error())
		if apiErr.Status == http.StatusUnauthorized {
			return ExitAuth
		}
		if apiErr.Status >= http.StatusInternalServerError {
			return ExitBackend
		}
		return ExitUser
	default:
		fmt.Fprintf(app.Err, "error: %s\n", err)
		return ExitBackend
	}
}

func usageError(app *App, cmd Command, msg string) int {
	fmt.Fprintf(app.Err, "error: %s\nusage: %s\n", msg, cmd.Usage())
	return ExitUser
}

// rowOffset is the number of rows before page, using the limit the server
// applies for the requested one.
func rowOffset(page, limit int) int {
	if limit < 1 {
		limit = entity.DefaultPageSize
	}
	if limit > entity.MaxPageSize {
		limit = entity.MaxPageSize
	}
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}

func printTasks(w io.Writer, page *entity.TaskPage, offset int) {
	if len(page.Tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tID\tSTATUS\tTITLE\tCREATED")
		for i, t := range page.Tasks {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", offset+i+1, t.ID, t.Status, t.Title, t.CreatedAt.Local().Format(dateLayout))
		}
		tw.Flush()
	}
	fmt.Fprintf(w, "Page %d of %d (%s)\n", page.CurrentPage, max(page.TotalPages, 1), plural(page.TotalTasks, "task"))
}

func printTask(w io.Writer, t *entity.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "Description:\t%s\n", t.Description)
	fmt.Fprintf(tw, "Status:\t%s\n", t.Status)
	fmt.Fprintf(tw, "Created:\t%s\n", t.CreatedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(tw, "Updated:\t%s\n", t.UpdatedAt.Local().Format(time.RFC3339))
	tw.Flush()
}

func printHistory(w io.Writer, history []entity.TaskAudit) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No history recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tACTION\tBY\tCHANGES")
	for _, a := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ChangedAt.Local().Format(time.RFC3339), a.Action, a.UserID, describeChanges(a))
	}
	tw.Flush()
}

func describeChanges(a entity.TaskAudit) string {
	if len(a.Changes) == 0 {
		if title, ok := a.NewValues["title"]; ok {
			return fmt.Sprintf("title=%v", title)
		}
		if title, ok := a.OldValues["title"]; ok {
			return fmt.Sprintf("title=%v", title)
		}
		return "-"
	}
	out := ""
	for _, field := range []string{"title", "description", "status"} {
		change, ok := a.Changes[field].(map[string]any)
		if !ok {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += fmt.Sprintf("%s: %v -> %v", field, change["old"], change["new"])
	}
	return out
}

func plural(n int64, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
