package expense

import (
	expense_create "expensems/cmd/expensectl/subcommands/expense/create"
	expense_list "expensems/cmd/expensectl/subcommands/expense/list"
	expense_pending "expensems/cmd/expensectl/subcommands/expense/pending"
	expense_review "expensems/cmd/expensectl/subcommands/expense/review"
	expense_submit "expensems/cmd/expensectl/subcommands/expense/submit"

	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	list, err := expense_list.New()
	if err != nil {
		return nil, err
	}
	create, err := expense_create.New()
	if err != nil {
		return nil, err
	}
	submit, err := expense_submit.New()
	if err != nil {
		return nil, err
	}
	pending, err := expense_pending.New()
	if err != nil {
		return nil, err
	}
	approve, err := expense_review.NewApprove()
	if err != nil {
		return nil, err
	}
	reject, err := expense_review.NewReject()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manage expenses through their approval workflow.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("submit", submit),
		flarc.WithSubcommand("pending", pending),
		flarc.WithSubcommand("approve", approve),
		flarc.WithSubcommand("reject", reject),
	)
}
