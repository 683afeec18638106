// Package assist runs AI writing requests against an editor session and
// applies successful results as single document edits.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/grouping"
	"github.com/jonathan/resume-editor/internal/keywords"
	"github.com/jonathan/resume-editor/internal/types"
)

// DefaultTimeout bounds a single generation request
const DefaultTimeout = 45 * time.Second

// DefaultOptionCount is the number of bullet options requested when none is given
const DefaultOptionCount = 3

// maxExperienceLines caps the bullet lines sent as summary context
const maxExperienceLines = 40

var (
	// ErrNoKeywords is returned when a bullet request has no keywords to work with
	ErrNoKeywords = errors.New("no keywords for bullet")
	// ErrBulletNotFound is returned when the target bullet does not exist
	ErrBulletNotFound = errors.New("bullet not found")
	// ErrEmptyResult is returned when the generator produced nothing usable
	ErrEmptyResult = errors.New("generator returned an empty result")
)

// Generator produces text for the writing assistant
type Generator interface {
	SuggestBullets(ctx context.Context, req types.BulletRequest) (*types.BulletOptions, error)
	GenerateSummary(ctx context.Context, req types.SummaryRequest) (*types.SummaryResponse, error)
}

// Options configures an Assistant
type Options struct {
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Assistant bounds generator calls and applies their results to an editor
type Assistant struct {
	gen     Generator
	timeout time.Duration
	log     zerolog.Logger
}

// New creates an Assistant over gen
func New(gen Generator, opts Options) *Assistant {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Assistant{gen: gen, timeout: opts.Timeout, log: opts.Logger}
}

// SuggestBullets asks for rewritten options of one bullet, targeting the job
// description keywords plus the bullet's own generated keywords. The document
// is not modified.
func (a *Assistant) SuggestBullets(ctx context.Context, ed *editor.Editor, sectionID, bulletID types.ID, set *types.JDKeywordSet, count int) ([]string, error) {
	req, err := BulletRequestFor(ed.Document(), sectionID, bulletID, set)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultOptionCount
	}
	req.Count = count

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	started := time.Now()
	resp, err := a.gen.SuggestBullets(ctx, req)
	if err != nil {
		a.log.Warn().Err(err).Str("section", string(sectionID)).Str("bullet", string(bulletID)).Msg("bullet generation failed")
		return nil, fmt.Errorf("failed to generate bullet options: %w", err)
	}

	options := cleanOptions(resp)
	if len(options) == 0 {
		return nil, ErrEmptyResult
	}
	a.log.Debug().Int("options", len(options)).Dur("took", time.Since(started)).Msg("bullet options generated")
	return options, nil
}

// ApplySuggestion writes a chosen option into the bullet as a single edit
func (a *Assistant) ApplySuggestion(ed *editor.Editor, sectionID, bulletID types.ID, text string, kws []string) *types.ResumeDocument {
	return ed.SetGeneratedBullet(sectionID, bulletID, text, kws)
}

// GenerateSummary asks for a professional summary from the document's visible
// experience and, on success, sets it as a single edit. On failure the
// document is left untouched.
func (a *Assistant) GenerateSummary(ctx context.Context, ed *editor.Editor, set *types.JDKeywordSet) (*types.ResumeDocument, error) {
	doc := ed.Document()
	req := SummaryRequestFor(doc, set)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.gen.GenerateSummary(ctx, req)
	if err != nil {
		a.log.Warn().Err(err).Msg("summary generation failed")
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Summary) == "" {
		return nil, ErrEmptyResult
	}

	return ed.UpdateField(types.FieldSummary, strings.TrimSpace(resp.Summary)), nil
}

// BulletRequestFor builds the generation request for one bullet, including the
// header of the company group it belongs to.
func BulletRequestFor(doc *types.ResumeDocument, sectionID, bulletID types.ID, set *types.JDKeywordSet) (types.BulletRequest, error) {
	si := doc.SectionIndex(sectionID)
	if si < 0 {
		return types.BulletRequest{}, ErrBulletNotFound
	}
	section := doc.Sections[si]
	bi := section.BulletIndex(bulletID)
	if bi < 0 {
		return types.BulletRequest{}, ErrBulletNotFound
	}
	bullet := section.Bullets[bi]

	kws := keywords.ForBullet(set, bullet)
	if len(kws) == 0 {
		return types.BulletRequest{}, ErrNoKeywords
	}

	req := types.BulletRequest{
		SectionTitle: section.Title,
		CurrentText:  grouping.StripDetailMarker(bullet.Text),
		Keywords:     kws,
	}
	groups := grouping.Partition(section.Bullets)
	if gi := grouping.GroupIndexOf(groups, bulletID); gi >= 0 {
		if header, ok := groups[gi].Header(); ok && header.ID != bulletID {
			req.Header = header.Text
		}
	}
	return req, nil
}

// SummaryRequestFor collects the visible experience lines of a document
func SummaryRequestFor(doc *types.ResumeDocument, set *types.JDKeywordSet) types.SummaryRequest {
	req := types.SummaryRequest{Title: doc.Title}
	if set != nil {
		req.Keywords = set.All()
	}
	for _, section := range doc.Sections {
		if keywords.IsExcludedSection(section.Title) {
			continue
		}
		req.Experience = append(req.Experience, visibleLines(section)...)
		if len(req.Experience) >= maxExperienceLines {
			req.Experience = req.Experience[:maxExperienceLines]
			break
		}
	}
	return req
}

// visibleLines returns the text of the shown bullets of a section with
// markers removed
func visibleLines(section types.Section) []string {
	if section.Params.IsHidden() {
		return nil
	}
	var out []string
	for _, group := range grouping.Partition(section.Bullets) {
		if group.Hidden() {
			continue
		}
		for _, b := range group.Bullets {
			if b.Params.IsHidden() {
				continue
			}
			text := grouping.StripDetailMarker(b.Text)
			if grouping.IsHeader(b.Text) {
				text = strings.TrimSpace(strings.Trim(text, "*"))
			}
			if text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

func cleanOptions(resp *types.BulletOptions) []string {
	if resp == nil {
		return nil
	}
	out := make([]string, 0, len(resp.Options))
	seen := make(map[string]bool)
	for _, opt := range resp.Options {
		opt = strings.TrimSpace(opt)
		key := strings.ToLower(opt)
		if opt == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, opt)
	}
	return out
}
