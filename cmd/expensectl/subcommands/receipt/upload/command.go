package upload

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/pkg/client"

	"github.com/google/uuid"
	"github.com/youta-t/flarc"
)

const (
	ARG_EXPENSE_ID = "EXPENSE_ID"
	ARG_FILE       = "FILE"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Attach a receipt file to an expense.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_EXPENSE_ID, Required: true,
				Help: "id of the expense to attach the receipt to",
			},
			{
				Name: ARG_FILE, Required: true,
				Help: "path of the receipt file (pdf, png or jpeg)",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Attach a receipt to an expense. An expense holds at most one receipt;
uploading again replaces the previous file.
`),
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
		path := cl.Args()[ARG_FILE][0]
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		receipt, err := c.UploadReceipt(ctx, id, filepath.Base(path), content)
		if err != nil {
			return err
		}
		fmt.Fprintf(cl.Stdout(), "uploaded %s (%d bytes) to expense %s\n",
			receipt.FileName, receipt.FileSize, receipt.ExpenseID)
		return nil
	}
}
