package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/docqa"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question)
	if err != nil {
		if docqa.ErrorCode(err) == docqa.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "error: nothing has been ingested yet. Run 'docqa ingest' first.")
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	fmt.Fprintln(deps.Stdout, answer.Answer)
	if answer.TopAnchorID != nil && answer.Score != nil {
		fmt.Fprintf(deps.Stdout, "\nSection: #%s (score %.4f)\n", *answer.TopAnchorID, *answer.Score)
	}
	return nil
}
