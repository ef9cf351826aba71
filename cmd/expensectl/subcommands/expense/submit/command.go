package submit

import (
	"context"
	"fmt"
	"log"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/pkg/client"

	"github.com/google/uuid"
	"github.com/youta-t/flarc"
)

const ARG_EXPENSE_ID = "EXPENSE_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Submit a draft expense for review.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_EXPENSE_ID, Required: true,
				Help: "id of the DRAFT expense to submit",
			},
		},
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
		id, err := uuid.Parse(cl.Args()[ARG_EXPENSE_ID][0])
		if err != nil {
			return fmt.Errorf("%w: invalid expense id", flarc.ErrUsage)
		}

		expense, err := c.SubmitExpense(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cl.Stdout(), "expense %s is now %s\n", expense.ID, expense.Status)
		return nil
	}
}
