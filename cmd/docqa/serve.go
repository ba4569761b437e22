package main

import (
	"fmt"

	"github.com/fwojciec/docqa"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if err := deps.Server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", deps.Server.URL())
	fmt.Fprintf(deps.Stdout, "  GET  /ingest-data  scrape %s\n", c.URL)
	fmt.Fprintln(deps.Stdout, "  POST /get-answer   {\"query\": \"...\"}")

	<-deps.Ctx.Done()

	fmt.Fprintln(deps.Stdout, "Shutting down...")
	return deps.Server.Close()
}
