package admin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const prompt = "cropcare-admin> "

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	List(ctx context.Context) error
	Show(ctx context.Context, username string) error
	Create(ctx context.Context, username string) error
	SetCity(ctx context.Context, username, city string) error
	Check(ctx context.Context, username string) error
	Upgrade(ctx context.Context) error
}

const helpText = `Commands:
  list                     list users
  show <user>              show one user
  create <user>            create a user (password asked twice)
  set-city <user> <city>   set a user's default city
  check <user>             verify a user's password
  upgrade                  normalize the user document
  help                     show this help
  exit | quit              leave`

// runREPL reads commands line by line until EOF or exit. Command errors are
// reported by the commands themselves and never stop the loop.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprint(w, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		arg := func(i int) string {
			if i < len(parts) {
				return parts[i]
			}
			return ""
		}

		switch parts[0] {
		case "help":
			fmt.Fprintln(w, helpText)
		case "list", "ls":
			_ = a.List(ctx)
		case "show":
			_ = a.Show(ctx, arg(1))
		case "create":
			_ = a.Create(ctx, arg(1))
		case "set-city":
			city := ""
			if len(parts) > 2 {
				city = strings.Join(parts[2:], " ")
			}
			_ = a.SetCity(ctx, arg(1), city)
		case "check":
			_ = a.Check(ctx, arg(1))
		case "upgrade":
			_ = a.Upgrade(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", parts[0])
		}

		if err != nil {
			return
		}
	}
}
