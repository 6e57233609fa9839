package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/St1cky1/taskboard/internal/client"
)

const (
	appName         = "taskctl"
	sessionFile     = "session.json"
	defaultServer   = "http://localhost:5005"
	serverEnvVar    = "TASKCTL_SERVER"
	configDirEnvVar = "TASKCTL_CONFIG_DIR"
)

type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Run parses args and runs one command. It returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) == 0 {
		args = []string{"list"}
	}

	name := args[0]
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return ExitUser
	}

	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s (see: taskctl help)\n", name)
		return ExitUser
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var server, configDir string
	fs.StringVar(&server, "server", envOr(serverEnvVar, defaultServer), "")
	fs.StringVar(&configDir, "config", os.Getenv(configDirEnvVar), "")
	cmd.RegisterFlags(fs)

	positional, err := parseInterspersed(fs, args[1:])
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\nusage: %s\n", err, cmd.Usage())
		return ExitUser
	}

	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	session, err := client.LoadSession(filepath.Join(configDir, sessionFile))
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return ExitUser
	}
	if cmd.NeedsAuth() && !session.SignedIn() {
		fmt.Fprintln(errOut, "error: not signed in (run: taskctl signin)")
		return ExitAuth
	}

	c, err := client.New(server, session)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return ExitUser
	}

	app := &App{
		Client:  c,
		Session: session,
		In:      bufio.NewReader(in),
		Out:     out,
		Err:     errOut,
	}
	return cmd.Run(ctx, app, positional)
}

// parseInterspersed allows flags after positional arguments, as in
// "taskctl rm <id> --yes".
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// DefaultConfigDir is $XDG_CONFIG_HOME/taskctl, or ~/.config/taskctl.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appName
	}
	return filepath.Join(home, ".config", appName)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
