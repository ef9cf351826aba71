package pending

import (
	"context"
	"log"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/cmd/expensectl/subcommands/expense/list"
	"expensems/pkg/client"

	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List expenses awaiting review (managers only).",
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
		expenses, err := c.PendingExpenses(ctx)
		if err != nil {
			return err
		}
		return list.WriteTable(cl, expenses)
	}
}
