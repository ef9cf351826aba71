package category

import (
	"context"
	"fmt"
	"log"
	"text/tabwriter"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/pkg/client"

	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List expense categories.",
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
		categories, err := c.ListCategories(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cl.Stdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, cat := range categories {
			fmt.Fprintf(w, "%s\t%s\t%s\n", cat.ID, cat.Name, cat.Description)
		}
		return w.Flush()
	}
}
