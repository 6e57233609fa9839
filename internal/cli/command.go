// Package cli implements the taskctl command line client.
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/St1cky1/taskboard/internal/client"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitUser    = 1 // bad arguments, validation, not found, forbidden
	ExitAuth    = 2 // not signed in or session expired
	ExitBackend = 3 // server or network failure
)

// App is what a command gets to work with.
type App struct {
	Client  *client.Client
	Session *client.Session
	In      *bufio.Reader
	Out     io.Writer
	Err     io.Writer
}

type Command interface {
	Name() string
	Synopsis() string
	Usage() string
	// NeedsAuth commands fail fast with ExitAuth when no session exists.
	NeedsAuth() bool
	RegisterFlags(fs *flag.FlagSet)
	Run(ctx context.Context, app *App, args []string) int
}

// Registry holds commands by name.
type Registry struct {
	cmds map[string]func() Command
}

func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]func() Command)}
}

// Register adds a command constructor. A fresh command is built for every
// run so flag values never leak between invocations.
func (r *Registry) Register(name string, newCmd func() Command) {
	if _, exists := r.cmds[name]; exists {
		panic(fmt.Sprintf("command already registered: %s", name))
	}
	r.cmds[name] = newCmd
}

func (r *Registry) Find(name string) (Command, bool) {
	newCmd, ok := r.cmds[name]
	if !ok {
		return nil, false
	}
	return newCmd(), true
}

func (r *Registry) All() []Command {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Command, len(names))
	for i, name := range names {
		out[i] = r.cmds[name]()
	}
	return out
}

// DefaultRegistry lists every taskctl command.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("signup", func() Command { return &signUpCmd{} })
	r.Register("signin", func() Command { return &signInCmd{} })
	r.Register("signout", func() Command { return &signOutCmd{} })
	r.Register("whoami", func() Command { return &whoamiCmd{} })
	r.Register("list", func() Command { return &listCmd{} })
	r.Register("show", func() Command { return &showCmd{} })
	r.Register("add", func() Command { return &addCmd{} })
	r.Register("edit", func() Command { return &editCmd{} })
	r.Register("rm", func() Command { return &rmCmd{} })
	r.Register("history", func() Command { return &historyCmd{} })
	r.Register("browse", func() Command { return &browseCmd{} })
	r.Register("help", func() Command { return &helpCmd{registry: r} })
	return r
}
