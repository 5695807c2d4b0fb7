package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/lensfinder/backend/internal/delivery/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
