package logout

import (
	"context"
	"log"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/pkg/client"

	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Revoke the refresh token and drop the stored session.",
		struct{}{},
		flarc.Args{},
		common.NewTask(Task()),
	)
}

func Task() common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		store *common.SessionStore,
		c *client.Client,
		cl flarc.Commandline[struct{}],
		_ []any,
	) error {
		// The local session is dropped even when the server-side revoke
		// fails; a dead token on disk helps nobody.
		err := c.Logout(ctx)
		if dropErr := store.Drop(); dropErr != nil {
			return dropErr
		}
		if err != nil {
			logger.Println("server-side logout failed:", err)
		}
		return nil
	}
}
