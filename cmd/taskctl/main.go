// Command taskctl is a terminal frontend for the tasks API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"tasks-be/internal/client"
	"tasks-be/internal/models"
)

const usage = `usage: taskctl [-api URL] [-session FILE] <command> [args]

commands:
  register -name NAME -email EMAIL     create an account and log in
  login -email EMAIL                   log in
  logout                               forget the stored session
  whoami                               show the logged-in user
  list                                 list your tasks
  add -title TITLE [-desc TEXT]        create a task
  edit -id ID [-title T] [-desc D]     update a task
  rm -id ID                            delete a task
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, client.ErrLoggedOut) {
			fmt.Fprintln(os.Stderr, "session expired or missing, run: taskctl login -email EMAIL")
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	global := flag.NewFlagSet("taskctl", flag.ContinueOnError)
	global.SetOutput(out)
	global.Usage = func() { fmt.Fprint(out, usage) }
	apiURL := global.String("api", envOr("TASKCTL_API_URL", "http://localhost:5000"), "API base URL")
	sessionPath := global.String("session", "", "session file (default: user config dir)")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	path := *sessionPath
	if path == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return err
		}
		path = p
	}
	c := client.New(*apiURL, client.NewFileStore(path))

	cmd, rest := global.Arg(0), global.Args()[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)

	switch cmd {
	case "register":
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email address")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		pw, err := readPassword(in, out)
		if err != nil {
			return err
		}
		s, err := c.Register(ctx, *name, *email, pw)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "registered and logged in as %s <%s>\n", s.User.Name, s.User.Email)

	case "login":
		email := fs.String("email", "", "email address")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		pw, err := readPassword(in, out)
		if err != nil {
			return err
		}
		s, err := c.Login(ctx, *email, pw)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "logged in as %s <%s>\n", s.User.Name, s.User.Email)

	case "logout":
		if err := c.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(out, "logged out")

	case "whoami":
		u, err := c.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s <%s> (%s)\n", u.Name, u.Email, u.ID)

	case "list":
		tasks, err := c.ListTasks(ctx)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Fprintln(out, "no tasks yet")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tDESCRIPTION\tCREATED")
		for _, t := range tasks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Description, t.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return tw.Flush()

	case "add":
		title := fs.String("title", "", "task title")
		desc := fs.String("desc", "", "task description")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		t, err := c.CreateTask(ctx, *title, *desc)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created %s\n", t.ID)

	case "edit":
		id := fs.String("id", "", "task id")
		var req models.UpdateTaskRequest
		fs.Func("title", "new title", func(v string) error { req.Title = &v; return nil })
		fs.Func("desc", "new description", func(v string) error { req.Description = &v; return nil })
		if err := fs.Parse(rest); err != nil {
			return err
		}
		t, err := c.UpdateTask(ctx, *id, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "updated %s: %s\n", t.ID, t.Title)

	case "rm":
		id := fs.String("id", "", "task id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := c.DeleteTask(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", *id)

	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// readPassword prompts without echo on a terminal and reads a plain line otherwise.
func readPassword(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
