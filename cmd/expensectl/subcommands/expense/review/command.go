package review

import (
	"context"
	"fmt"
	"log"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/pkg/api"
	"expensems/pkg/client"

	"github.com/google/uuid"
	"github.com/youta-t/flarc"
)

const ARG_EXPENSE_ID = "EXPENSE_ID"

type Flag struct {
	Notes string `flag:"notes" metavar:"TEXT" help:"review notes attached to the verdict"`
}

// NewApprove builds the approve command (managers only).
func NewApprove() (flarc.Command, error) {
	return newReview(
		"Approve a submitted expense.",
		func(c *client.Client) reviewFunc { return c.ApproveExpense },
	)
}

// NewReject builds the reject command (managers only).
func NewReject() (flarc.Command, error) {
	return newReview(
		"Reject a submitted expense.",
		func(c *client.Client) reviewFunc { return c.RejectExpense },
	)
}

type reviewFunc func(ctx context.Context, id uuid.UUID, notes string) (*api.Expense, error)

func newReview(description string, action func(*client.Client) reviewFunc) (flarc.Command, error) {
	return flarc.NewCommand(
		description,
		Flag{},
		flarc.Args{
			{
				Name: ARG_EXPENSE_ID, Required: true,
				Help: "id of the SUBMITTED expense to review",
			},
		},
		common.NewTask(Task(action)),
	)
}

func Task(action func(*client.Client) reviewFunc) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		store *common.SessionStore,
		c *client.Client,
		cl flarc.Commandline[Flag],
		_ []any,
	) error {
		id, err := uuid.Parse(cl.Args()[ARG_EXPENSE_ID][0])
		if err != nil {
			return fmt.Errorf("%w: invalid expense id", flarc.ErrUsage)
		}

		expense, err := action(c)(ctx, id, cl.Flags().Notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(cl.Stdout(), "expense %s is now %s\n", expense.ID, expense.Status)
		return nil
	}
}
