package backend

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-editor/internal/types"
)

// Analyze runs keyword matching and ATS scoring for one job description
// concurrently. Either failure cancels the other and is returned.
func (c *Client) Analyze(ctx context.Context, doc *types.ResumeDocument, jobDescription string) (*types.Analysis, error) {
	g, ctx := errgroup.WithContext(ctx)
	var out types.Analysis

	g.Go(func() error {
		set, err := c.MatchKeywords(ctx, types.KeywordMatchRequest{Document: doc, JobDescription: jobDescription})
		if err != nil {
			return err
		}
		out.Keywords = set
		return nil
	})
	g.Go(func() error {
		score, err := c.ScoreATS(ctx, types.ATSRequest{Document: doc, JobDescription: jobDescription})
		if err != nil {
			return err
		}
		out.Score = score
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
