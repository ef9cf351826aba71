package download

import (
	"context"
	"fmt"
	"log"
	"os"

	"expensems/cmd/expensectl/subcommands/common"
	"expensems/pkg/client"

	"github.com/google/uuid"
	"github.com/youta-t/flarc"
)

const ARG_RECEIPT_ID = "RECEIPT_ID"

type Flag struct {
	Output string `flag:"output" alias:"o" metavar:"PATH" help:"write the file here instead of stdout"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Download a receipt file.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_RECEIPT_ID, Required: true,
				Help: "id of the receipt to download",
			},
		},
		common.NewTask(Task()),
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
		id, err := uuid.Parse(cl.Args()[ARG_RECEIPT_ID][0])
		if err != nil {
			return fmt.Errorf("%w: invalid receipt id", flarc.ErrUsage)
		}

		content, contentType, err := c.DownloadReceipt(ctx, id)
		if err != nil {
			return err
		}

		if out := cl.Flags().Output; out != "" {
			if err := os.WriteFile(out, content, 0o644); err != nil {
				return err
			}
			logger.Printf("wrote %d bytes (%s) to %s", len(content), contentType, out)
			return nil
		}
		_, err = cl.Stdout().Write(content)
		return err
	}
}
