package grouping

import "github.com/jonathan/resume-editor/internal/types"

// CompanyGroup is a contiguous run of bullets: a header followed by its
// details, or a single headerless bullet. Groups are derived on demand and
// never stored.
type CompanyGroup struct {
	Bullets   []types.Bullet `json:"bullets"`
	HasHeader bool           `json:"has_header"`
}

// Header returns the group's header bullet, if any
func (g CompanyGroup) Header() (types.Bullet, bool) {
	if !g.HasHeader || len(g.Bullets) == 0 {
		return types.Bullet{}, false
	}
	return g.Bullets[0], true
}

// Hidden reports whether the group's header is explicitly hidden.
// Headerless groups are never hidden at the group level.
func (g CompanyGroup) Hidden() bool {
	h, ok := g.Header()
	return ok && h.Params.IsHidden()
}

// Partition splits bullets into company groups in a single left-to-right pass.
// Every header starts a new group and absorbs the details that follow it.
// Details that appear before any header each form their own group.
func Partition(bullets []types.Bullet) []CompanyGroup {
	groups := make([]CompanyGroup, 0, len(bullets))
	current := -1

	for _, b := range bullets {
		if IsHeader(b.Text) {
			groups = append(groups, CompanyGroup{Bullets: []types.Bullet{b}, HasHeader: true})
			current = len(groups) - 1
			continue
		}
		if current >= 0 {
			groups[current].Bullets = append(groups[current].Bullets, b)
			continue
		}
		groups = append(groups, CompanyGroup{Bullets: []types.Bullet{b}})
	}

	return groups
}
