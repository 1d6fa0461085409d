// Package admin is an interactive maintenance console for the user document.
// It works on the file directly, so it can be used while the server is down
// or to inspect a document the server reported as corrupt.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/cryptox"
	"github.com/dmitrijs2005/cropcare/internal/filex"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/config"
	"github.com/dmitrijs2005/cropcare/internal/server/repositories/users"
	"github.com/dmitrijs2005/cropcare/internal/server/services"
)

// upgrader reports how many entries a load had to normalize.
type upgrader interface {
	Upgrade(ctx context.Context) (int, error)
}

type App struct {
	users    *services.UserService
	upgrader upgrader
	path     string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config, in io.Reader, out io.Writer, logger logging.Logger) (*App, error) {
	scheme, err := cryptox.ParseScheme(c.PasswordScheme)
	if err != nil {
		return nil, err
	}

	repo := users.NewFileRepository(c.UserFilePath(), logger)
	return newApp(services.NewUserService(repo, scheme, logger), repo, repo.Path(), in, out), nil
}

func newApp(us *services.UserService, up upgrader, path string, in io.Reader, out io.Writer) *App {
	return &App{users: us, upgrader: up, path: path, reader: bufio.NewReader(in), out: out}
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintf(a.out, "CropCare admin console, user document: %s\n", a.path)
	if ok, err := filex.Exists(a.path); err == nil && !ok {
		fmt.Fprintln(a.out, "The document does not exist yet and will be created on first write.")
	}
	fmt.Fprintln(a.out, `Type "help" for commands.`)
	runREPL(ctx, a, a.reader, a.out)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// report prints err the way end users see it, plus the detail for operators.
func (a *App) report(err error) error {
	msg := common.UserMessage(err)
	if common.IsAuthError(err) {
		a.printf("%s (%v)\n", msg, err)
	} else {
		a.printf("Error: %v\n", err)
	}
	return err
}

func (a *App) List(ctx context.Context) error {
	list, err := a.users.ListUsers(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(list) == 0 {
		a.printf("No users.\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tDEFAULT CITY\tSCHEME")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Username, orDash(u.City()), hashScheme(u.PasswordHash))
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context, username string) error {
	if username == "" {
		username = a.prompt("Username")
	}
	u, err := a.users.GetUser(ctx, username)
	if err != nil {
		return a.report(err)
	}

	a.printf("Username:     %s\n", u.Username)
	a.printf("Default city: %s\n", orDash(u.City()))
	a.printf("Password:     %s\n", hashScheme(u.PasswordHash))
	return nil
}

func (a *App) Create(ctx context.Context, username string) error {
	if username == "" {
		username = a.prompt("Username")
	}
	pw, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return a.report(err)
	}
	confirm, err := GetPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return a.report(err)
	}

	if err := a.users.Signup(ctx, username, pw, confirm); err != nil {
		return a.report(err)
	}
	a.printf("Created user %s.\n", username)
	return nil
}

func (a *App) SetCity(ctx context.Context, username, city string) error {
	if username == "" {
		username = a.prompt("Username")
	}
	if city == "" {
		city = a.prompt("City")
	}
	if err := a.users.SaveDefaultCity(ctx, username, city); err != nil {
		return a.report(err)
	}
	a.printf("Default city for %s set to %s.\n", username, city)
	return nil
}

func (a *App) Check(ctx context.Context, username string) error {
	if username == "" {
		username = a.prompt("Username")
	}
	pw, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return a.report(err)
	}

	if _, err := a.users.Login(ctx, username, pw); err != nil {
		return a.report(err)
	}
	a.printf("Credentials OK for %s.\n", username)
	return nil
}

func (a *App) Upgrade(ctx context.Context) error {
	n, err := a.upgrader.Upgrade(ctx)
	if err != nil {
		if errors.Is(err, common.ErrStorageCorrupt) {
			a.printf("User document is corrupt and was left untouched: %v\n", err)
			return err
		}
		return a.report(err)
	}
	if n == 0 {
		a.printf("Nothing to upgrade.\n")
		return nil
	}
	a.printf("Upgraded %d record(s).\n", n)
	return nil
}

func (a *App) prompt(label string) string {
	s, _ := GetSimpleText(a.reader, label, a.out)
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func hashScheme(hash string) string {
	switch {
	case hash == "":
		return "(none)"
	case strings.HasPrefix(hash, string(cryptox.SchemeArgon2id)+"$"):
		return string(cryptox.SchemeArgon2id)
	default:
		return string(cryptox.SchemeSHA256)
	}
}
