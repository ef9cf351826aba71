package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"expensems/cmd/expensectl/subcommands/category"
	"expensems/cmd/expensectl/subcommands/common"
	"expensems/cmd/expensectl/subcommands/expense"
	"expensems/cmd/expensectl/subcommands/login"
	"expensems/cmd/expensectl/subcommands/logout"
	"expensems/cmd/expensectl/subcommands/receipt"

	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cmd, err := newRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", name, err)
		os.Exit(1)
	}

	os.Exit(flarc.Run(ctx, cmd, flarc.WithHelp(true)))
}

func newRoot() (flarc.Command, error) {
	loginCmd, err := login.New()
	if err != nil {
		return nil, err
	}
	logoutCmd, err := logout.New()
	if err != nil {
		return nil, err
	}
	expenseCmd, err := expense.New()
	if err != nil {
		return nil, err
	}
	categoryCmd, err := category.New()
	if err != nil {
		return nil, err
	}
	receiptCmd, err := receipt.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Expense management commandline interface.",
		common.DefaultFlags(),
		flarc.WithSubcommand("login", loginCmd),
		flarc.WithSubcommand("logout", logoutCmd),
		flarc.WithSubcommand("expense", expenseCmd),
		flarc.WithSubcommand("category", categoryCmd),
		flarc.WithSubcommand("receipt", receiptCmd),
	)
}
