package rag

import (
	"context"
	"strings"

	"github.com/fwojciec/docqa"
)

// Ensure Asker implements docqa.Asker at compile time.
var _ docqa.Asker = (*Asker)(nil)

// RetrievalFunc observes the chunks retrieved for a question.
type RetrievalFunc func(ctx context.Context, question string, results []docqa.RetrievalResult)

// Asker answers questions from the corpus. The best section is the parent
// section holding the single best-matching chunk; the model sees every
// retrieved chunk grouped by parent.
type Asker struct {
	Embedder  docqa.Embedder
	Corpus    docqa.CorpusService
	Generator docqa.Generator

	// K is the number of chunks retrieved. Defaults to docqa.DefaultK.
	K int

	// ContextLimit caps the context in characters.
	// Defaults to docqa.DefaultContextLimit.
	ContextLimit int

	// OnRetrieve, if set, is called with the retrieval results.
	OnRetrieve RetrievalFunc
}

// Ask answers question. If nothing relevant is retrieved the fixed
// insufficient information answer is returned without calling the model.
func (a *Asker) Ask(ctx context.Context, question string) (*docqa.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, docqa.Errorf(docqa.EINVALID, "query required")
	}

	var results []docqa.RetrievalResult
	if err := a.Corpus.View(ctx, func(corpus *docqa.Corpus) error {
		vec, err := a.Embedder.Embed(ctx, question)
		if err != nil {
			return err
		}
		results, err = docqa.Retrieve(ctx, corpus, vec, a.K)
		return err
	}); err != nil {
		return nil, err
	}

	if a.OnRetrieve != nil {
		a.OnRetrieve(ctx, question, results)
	}

	best := docqa.BestSection(docqa.AggregateSections(results))
	if best == nil {
		return docqa.NoAnswer(), nil
	}

	block := docqa.BuildContext(docqa.GroupByParent(results), a.ContextLimit)
	text, err := a.Generator.Generate(ctx, docqa.SystemInstruction(block), question)
	if err != nil {
		return nil, err
	}

	anchor := best.BestChunk().Chunk.AnchorID
	score := docqa.RoundScore(best.BestScore)
	return &docqa.Answer{
		Answer:      text,
		TopAnchorID: &anchor,
		Score:       &score,
	}, nil
}
