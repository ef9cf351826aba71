package list

import (
	"context"
	"fmt"
	"log"
	"text/tabwriter"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/pkg/api"
	"expensems/pkg/client"

	"github.com/youta-t/flarc"
)

type Flag struct {
	Page     int    `flag:"page" help:"page number, 0-based"`
	Size     int    `flag:"size" help:"page size"`
	Sort     string `flag:"sort" metavar:"FIELD" help:"sort field (expenseDate, amount, status, createdAt)"`
	Asc      bool   `flag:"asc" help:"sort ascending instead of descending"`
	Status   string `flag:"status" help:"filter by status (DRAFT, SUBMITTED, APPROVED, REJECTED)"`
	Category string `flag:"category" metavar:"ID" help:"filter by category id"`
	From     string `flag:"from" metavar:"YYYY-MM-DD" help:"filter from date"`
	To       string `flag:"to" metavar:"YYYY-MM-DD" help:"filter to date"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List your expenses as a paged table.",
		Flag{
			Size: 10,
			Sort: "expenseDate",
		},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(`
List your expenses, filtered, sorted and paged.

Example
-------

Second page of submitted expenses, cheapest first:

	{{ .Command }} --status SUBMITTED --sort amount --asc --page 1
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

		list := c.ExpenseList()
		list.SetPageSize(flags.Size)
		// Direction is set outright: toggling would invert the
		// controller's descending default for its own default field.
		list.SetSort(flags.Sort, !flags.Asc)
		list.SetFilter("status", flags.Status)
		list.SetFilter("categoryId", flags.Category)
		list.SetFilter("startDate", flags.From)
		list.SetFilter("endDate", flags.To)
		list.SetPage(flags.Page)

		if err := list.Load(ctx); err != nil {
			return err
		}

		if err := WriteTable(cl, list.Rows()); err != nil {
			return err
		}
		fmt.Fprintf(cl.Stdout(), "page %d of %d, %d total\n",
			list.Query().Page+1, list.TotalPages(), list.Total())
		return nil
	}
}

// WriteTable renders expenses as a tab-aligned table. Shared with the
// pending subcommand.
func WriteTable[T any](cl flarc.Commandline[T], expenses []api.Expense) error {
	w := tabwriter.NewWriter(cl.Stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tSTATUS\tCATEGORY\tDESCRIPTION")
	for _, e := range expenses {
		desc := e.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.ExpenseDate, e.Amount.StringFixed(2), e.Status, e.Category.Name, desc)
	}
	return w.Flush()
}
