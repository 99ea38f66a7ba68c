// Package main provides the entry point for the storefront CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Aman-CERP/storefront/cmd/storefront/cmd"
	sferrors "github.com/Aman-CERP/storefront/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, sferrors.FormatForCLI(err))
		os.Exit(1)
	}
}
