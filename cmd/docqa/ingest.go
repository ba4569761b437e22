package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/docqa"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Ingesting %s...\n", c.URL)

	result, err := deps.Ingester.Ingest(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Ingested %d sections as %d chunks (%s) in %s\n",
		result.Sections, result.Chunks, FormatTokens(result.Tokens), result.Duration.Round(time.Millisecond))
	if c.DumpDir != "" {
		fmt.Fprintf(deps.Stdout, "Sections written to %s\n", c.DumpDir)
	}
	return nil
}

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}
