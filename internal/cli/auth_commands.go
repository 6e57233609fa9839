package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/St1cky1/taskboard/internal/entity"
)

type signUpCmd struct {
	name, email, password, role string
}

func (c *signUpCmd) Name() string     { return "signup" }
func (c *signUpCmd) Synopsis() string { return "Create an account and sign in" }
func (c *signUpCmd) Usage() string {
	return "taskctl signup --name <name> --email <email> --password <password> [--role user|admin]"
}
func (c *signUpCmd) NeedsAuth() bool { return false }

func (c *signUpCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.role, "role", "", "")
}

func (c *signUpCmd) Run(ctx context.Context, app *App, args []string) int {
	if len(args) > 0 {
		return usageError(app, c, "unexpected arguments")
	}
	resp, err := app.Client.SignUp(ctx, entity.SignUpRequest{
		Name:     c.name,
		Email:    c.email,
		Password: c.password,
		Role:     entity.Role(c.role),
	})
	if err != nil {
		return fail(app, err)
	}
	fmt.Fprintf(app.Out, "Signed up as %s (%s)\n", resp.Email, resp.Role)
	return ExitOK
}

type signInCmd struct {
	email, password string
}

func (c *signInCmd) Name() string     { return "signin" }
func (c *signInCmd) Synopsis() string { return "Sign in and remember the session" }
func (c *signInCmd) Usage() string    { return "taskctl signin --email <email> --password <password>" }
func (c *signInCmd) NeedsAuth() bool  { return false }

func (c *signInCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *signInCmd) Run(ctx context.Context, app *App, args []string) int {
	if c.email == "" || c.password == "" {
		return usageError(app, c, "email and password are required")
	}
	resp, err := app.Client.SignIn(ctx, c.email, c.password)
	if err != nil {
		return fail(app, err)
	}
	fmt.Fprintf(app.Out, "Signed in as %s (%s)\n", resp.Email, resp.Role)
	return ExitOK
}

type signOutCmd struct{}

func (c *signOutCmd) Name() string                 { return "signout" }
func (c *signOutCmd) Synopsis() string             { return "Forget the stored session" }
func (c *signOutCmd) Usage() string                { return "taskctl signout" }
func (c *signOutCmd) NeedsAuth() bool              { return false }
func (c *signOutCmd) RegisterFlags(*flag.FlagSet) {}

func (c *signOutCmd) Run(_ context.Context, app *App, _ []string) int {
	if err := app.Client.SignOut(); err != nil {
		return fail(app, err)
	}
	fmt.Fprintln(app.Out, "Signed out")
	return ExitOK
}

type whoamiCmd struct{}

func (c *whoamiCmd) Name() string                 { return "whoami" }
func (c *whoamiCmd) Synopsis() string             { return "Show the signed-in user" }
func (c *whoamiCmd) Usage() string                { return "taskctl whoami" }
func (c *whoamiCmd) NeedsAuth() bool              { return true }
func (c *whoamiCmd) RegisterFlags(*flag.FlagSet) {}

func (c *whoamiCmd) Run(_ context.Context, app *App, _ []string) int {
	cur := app.Session.Current()
	fmt.Fprintf(app.Out, "%s <%s> role=%s id=%s\n", cur.Name, cur.Email, cur.Role, cur.UserID)
	return ExitOK
}
