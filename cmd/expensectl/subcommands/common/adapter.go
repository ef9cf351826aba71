package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	"expensems/pkg/client"

	"github.com/youta-t/flarc"
)

// Task is the signature expensectl subcommands implement: a logger, the
// session store, and an authenticated API client, on top of the plain
// flarc commandline.
type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	store *SessionStore,
	c *client.Client,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTask adapts a Task into a flarc.Task: it extracts the CommonFlags
// passed down from the command group, builds the client with the stored
// session restored, and wires the 401 side effect (drop the session,
// tell the user to log in again).
func NewTask[T any](task Task[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], params []any) error {
		var cf CommonFlags
		found := false
		rest := make([]any, 0, len(params))
		for _, p := range params {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				cf = v
			default:
				rest = append(rest, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		store := NewSessionStore(cf.Session)
		c := client.New(cf.Server, client.WithUnauthorizedHandler(func() {
			_ = store.Drop()
			logger.Println("session expired, run `expensectl login`")
		}))
		store.Restore(c)

		return task(ctx, logger, store, c, cl, rest)
	}
}
