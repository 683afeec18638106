package editor

import (
	"strings"

	"github.com/jonathan/resume-editor/internal/grouping"
	"github.com/jonathan/resume-editor/internal/types"
)

// defaultJobSectionTitle titles a job section whose company and role are blank
const defaultJobSectionTitle = "Work Experience"

// HandleParsedResume replaces the document's sections with sections built from
// an external parse result. Each job becomes a section holding its header and
// bullet lines; each free-text section keeps its title and holds one header
// plus description line per item. Duplicate titles are dropped before the
// result is merged, and non-empty top-level fields overwrite the document's.
func HandleParsedResume(doc *types.ResumeDocument, parsed *types.ParsedResume, nextID func() types.ID) *types.ResumeDocument {
	if parsed == nil {
		return doc
	}

	sections := make([]types.Section, 0, len(parsed.Jobs)+len(parsed.Sections))

	for _, job := range parsed.Jobs {
		section := types.Section{ID: nextID(), Title: jobSectionTitle(job), Bullets: []types.Bullet{}}
		header := types.HeaderFields{
			Company:   job.Company,
			Location:  job.Location,
			Role:      job.Role,
			DateRange: job.Date,
		}
		if !header.IsEmpty() {
			section.Bullets = append(section.Bullets, types.Bullet{ID: nextID(), Text: grouping.FormatHeader(header)})
		}
		for _, line := range job.Bullets {
			if text := grouping.FormatDetail(line); text != "" {
				section.Bullets = append(section.Bullets, types.Bullet{ID: nextID(), Text: text})
			}
		}
		sections = append(sections, section)
	}

	for _, ps := range parsed.Sections {
		section := types.Section{ID: nextID(), Title: strings.TrimSpace(ps.Title)}
		for _, item := range ps.Items {
			if strings.TrimSpace(item.Title) != "" || strings.TrimSpace(item.Subtitle) != "" {
				section.Bullets = append(section.Bullets, types.Bullet{
					ID: nextID(),
					Text: grouping.FormatHeader(types.HeaderFields{
						Company:   item.Title,
						Role:      item.Subtitle,
						DateRange: item.Date,
					}),
				})
			}
			if text := grouping.FormatDetail(item.Description); text != "" {
				section.Bullets = append(section.Bullets, types.Bullet{ID: nextID(), Text: text})
			}
		}
		if section.Bullets == nil {
			section.Bullets = []types.Bullet{}
		}
		sections = append(sections, section)
	}

	next := doc.Clone()
	next.Sections = DedupeSections(sections)
	if parsed.Name != "" {
		next.Name = parsed.Name
	}
	if parsed.Title != "" {
		next.Title = parsed.Title
	}
	if parsed.Summary != "" {
		next.Summary = parsed.Summary
	}
	return next
}

func jobSectionTitle(job types.ParsedJob) string {
	if c := strings.TrimSpace(job.Company); c != "" {
		return c
	}
	if r := strings.TrimSpace(job.Role); r != "" {
		return r
	}
	return defaultJobSectionTitle
}
