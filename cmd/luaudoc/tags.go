package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/urfave/cli/v3"
)

//go:embed tag_reference.txt
var tagReference string

func tagsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "show the supported doc comment tags",
		Description: "Print every tag the extractor understands with its syntax.\n" +
			"Output is designed to be grep-friendly.\n\n" +
			"Examples:\n" +
			"  luaudoc tags                  # show all tags\n" +
			"  luaudoc tags | grep @param    # show the @param syntax\n" +
			"  luaudoc tags | grep -A2 @type # show @type with context",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Print(tagReference)
			return nil
		},
	}
}
