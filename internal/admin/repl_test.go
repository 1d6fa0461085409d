package admin

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
}

func (f *fakeExec) List(context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Show(_ context.Context, u string) error {
	f.calls = append(f.calls, "show:"+u)
	return nil
}
func (f *fakeExec) Create(_ context.Context, u string) error {
	f.calls = append(f.calls, "create:"+u)
	return nil
}
func (f *fakeExec) SetCity(_ context.Context, u, c string) error {
	f.calls = append(f.calls, "set-city:"+u+":"+c)
	return nil
}
func (f *fakeExec) Check(_ context.Context, u string) error {
	f.calls = append(f.calls, "check:"+u)
	return nil
}
func (f *fakeExec) Upgrade(context.Context) error { f.calls = append(f.calls, "upgrade"); return nil }

func TestRunREPL_DispatchesCommands(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"",
		"list",
		"show ravi",
		"create amit",
		"set-city ravi New Delhi",
		"check ravi",
		"upgrade",
		"bogus",
		"exit",
		"list",
	}, "\n") + "\n"

	f := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), f, bufio.NewReader(strings.NewReader(input)), &out)

	assert.Equal(t, []string{
		"list", "show:ravi", "create:amit", "set-city:ravi:New Delhi", "check:ravi", "upgrade",
	}, f.calls)
	assert.Contains(t, out.String(), "cropcare-admin> ")
	assert.Contains(t, out.String(), "set-city <user> <city>")
	assert.Contains(t, out.String(), "Unknown command: bogus")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	f := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), f, bufio.NewReader(strings.NewReader("list")), &out)

	assert.Equal(t, []string{"list"}, f.calls, "a final line without newline still runs")
}

func TestRunREPL_MissingArgs(t *testing.T) {
	f := &fakeExec{}
	runREPL(context.Background(), f, bufio.NewReader(strings.NewReader("show\nset-city\nquit\n")), &bytes.Buffer{})
	assert.Equal(t, []string{"show:", "set-city::"}, f.calls)
}
