package login

import (
	"context"
	"fmt"
	"log"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/pkg/client"

	"github.com/youta-t/flarc"
)

type Flag struct {
	Email    string `flag:"email" metavar:"ADDRESS" help:"account email"`
	Password string `flag:"password" metavar:"SECRET" help:"account password"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Authenticate and store the session.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(`
Authenticate against the expense management API and store the issued
token pair for later commands.

Example
-------

	{{ .Command }} --email me@example.com --password secret
`),
	)
}

func Task() common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		store *common.SessionStore,
		c *client.Client,
		cl flarc.Commandline[Flag],
		_ []any,
	) error {
		flags := cl.Flags()
		if flags.Email == "" || flags.Password == "" {
			return fmt.Errorf("%w: --email and --password are required", flarc.ErrUsage)
		}

		auth, err := c.Login(ctx, flags.Email, flags.Password)
		if err != nil {
			return err
		}
		if err := store.Save(c); err != nil {
			return err
		}

		fmt.Fprintf(cl.Stdout(), "logged in as %s (%s)\n", auth.User.Email, auth.User.Role)
		return nil
	}
}
