// Command stockfix reconciles stuck inventory reservations in an Odoo-style
// ERP: plan reviews what is stuck, apply releases it in batches.
package main

import (
	"fmt"
	"os"

	"github.com/stockfix/stockfix/internal/cli"
	"github.com/stockfix/stockfix/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}
