package receipt

import (
	receipt_download "expensems/cmd/expensectl/subcommands/receipt/download"
	receipt_upload "expensems/cmd/expensectl/subcommands/receipt/upload"

	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	upload, err := receipt_upload.New()
	if err != nil {
		return nil, err
	}
	download, err := receipt_download.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manage receipt files attached to expenses.",
		struct{}{},
		flarc.WithSubcommand("upload", upload),
		flarc.WithSubcommand("download", download),
	)
}
