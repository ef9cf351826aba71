package create

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/pkg/client"

	"github.com/youta-t/flarc"
)

type Flag struct {
	Category    string `flag:"category" metavar:"ID" help:"category id, see the category subcommand"`
	Amount      string `flag:"amount" metavar:"N.NN" help:"amount, e.g. 42.50"`
	Date        string `flag:"date" metavar:"YYYY-MM-DD" help:"expense date, defaults to today"`
	Description string `flag:"description" metavar:"TEXT" help:"what the expense was for"`
	Receipt     string `flag:"receipt" metavar:"PATH" help:"receipt file to attach after saving"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Create a draft expense.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(`
Create an expense in DRAFT status. An optionally staged receipt is
uploaded after the expense is saved; if that upload fails the expense
still exists and the receipt can be attached later with
`+"`expensectl receipt upload`"+`.

Example
-------

	{{ .Command }} --category CATEGORY_ID --amount 42.50 --description "Taxi to the airport" --receipt ./taxi.pdf
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

		form := client.NewExpenseForm(c)
		draft := form.Draft()
		draft.CategoryID = flags.Category
		draft.Amount = flags.Amount
		draft.Description = flags.Description
		if flags.Date != "" {
			draft.ExpenseDate = flags.Date
		}
		form.SetDraft(draft)

		if flags.Receipt != "" {
			content, err := os.ReadFile(flags.Receipt)
			if err != nil {
				return err
			}
			form.StageReceipt(filepath.Base(flags.Receipt), content)
		}

		if err := form.Submit(ctx); err != nil {
			var valErr *client.ValidationError
			if errors.As(err, &valErr) {
				for field, msg := range valErr.Fields {
					logger.Printf("%s: %s", field, msg)
				}
				return fmt.Errorf("%w: invalid expense", flarc.ErrUsage)
			}
			return err
		}

		saved := form.Saved()
		fmt.Fprintf(cl.Stdout(), "created expense %s (%s)\n", saved.ID, saved.Status)
		if err := form.ReceiptErr(); err != nil {
			logger.Println("expense saved but receipt upload failed:", err)
		}
		return nil
	}
}
