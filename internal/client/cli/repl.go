package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Use(ctx context.Context, name string) error
	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Filter(ctx context.Context, status string) error
	Page(ctx context.Context, n string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Retry(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, key string) error
	Delete(ctx context.Context, key string) error
	Metrics(ctx context.Context, args []string) error
	Report(ctx context.Context) error
	Branding(ctx context.Context, args []string) error
	Access(ctx context.Context, cardID string) error
	QR(ctx context.Context, cardID string) error
	Status(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, status, exit"
	helpLoggedIn  = "Available commands: use <users|classes|payments>, (l)ist, search [text], filter <status>, " +
		"page <n>, (n)ext, (p)rev, retry, add, edit <key>, delete <key>, metrics [start end], report, " +
		"branding [set <key> <value>], access <card id>, qr <card id>, status, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a. The prompt
// shows statusFn. Errors returned by handlers are described to the operator
// and the loop keeps going; it ends on EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gym> %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Error reading input:", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn(describeError(err))
		}
	}
}

var errUnknownCommand = errors.New("unknown command")

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "login":
		return a.Login(ctx)
	case "status":
		return a.Status(ctx)
	}

	if !a.isLoggedIn() {
		printlnFn("Please log in first (type 'login').")
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "use":
		if len(args) != 1 {
			return errors.New("usage: use <users|classes|payments>")
		}
		return a.Use(ctx, args[0])
	case "l", "list":
		return a.List(ctx)
	case "search":
		return a.Search(ctx, strings.Join(args, " "))
	case "filter":
		if len(args) != 1 {
			return errors.New("usage: filter <status>")
		}
		return a.Filter(ctx, args[0])
	case "page":
		if len(args) != 1 {
			return errors.New("usage: page <n>")
		}
		return a.Page(ctx, args[0])
	case "n", "next":
		return a.Next(ctx)
	case "p", "prev":
		return a.Prev(ctx)
	case "retry":
		return a.Retry(ctx)
	case "add":
		return a.Add(ctx)
	case "edit":
		if len(args) != 1 {
			return errors.New("usage: edit <key>")
		}
		return a.Edit(ctx, args[0])
	case "delete", "rm":
		if len(args) != 1 {
			return errors.New("usage: delete <key>")
		}
		return a.Delete(ctx, args[0])
	case "metrics":
		return a.Metrics(ctx, args)
	case "report":
		return a.Report(ctx)
	case "branding":
		return a.Branding(ctx, args)
	case "access":
		if len(args) != 1 {
			return errors.New("usage: access <card id>")
		}
		return a.Access(ctx, args[0])
	case "qr":
		if len(args) != 1 {
			return errors.New("usage: qr <card id>")
		}
		return a.QR(ctx, args[0])
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}
