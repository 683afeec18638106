package prefs

import (
	"context"

	"github.com/jonathan/resume-editor/internal/types"
)

// CustomField is a user-defined contact field shown in the header
type CustomField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// OpenSections returns the IDs of sections expanded in the editor
func (s *Store) OpenSections(ctx context.Context, scope string) ([]types.ID, error) {
	ids := []types.ID{}
	_, err := s.Get(ctx, scope, KeyOpenSections, &ids)
	return ids, err
}

// SetOpenSections stores the expanded section IDs
func (s *Store) SetOpenSections(ctx context.Context, scope string, ids []types.ID) error {
	return s.Put(ctx, scope, KeyOpenSections, ids)
}

// GroupExpansion returns the expanded state of company groups keyed by header ID
func (s *Store) GroupExpansion(ctx context.Context, scope string) (map[types.ID]bool, error) {
	state := map[types.ID]bool{}
	_, err := s.Get(ctx, scope, KeyGroupExpansion, &state)
	return state, err
}

// SetGroupExpanded records whether one company group is expanded
func (s *Store) SetGroupExpanded(ctx context.Context, scope string, headerID types.ID, expanded bool) error {
	state, err := s.GroupExpansion(ctx, scope)
	if err != nil {
		return err
	}
	state[headerID] = expanded
	return s.Put(ctx, scope, KeyGroupExpansion, state)
}

// CustomFields returns the user-defined contact fields
func (s *Store) CustomFields(ctx context.Context, scope string) ([]CustomField, error) {
	fields := []CustomField{}
	_, err := s.Get(ctx, scope, KeyCustomFields, &fields)
	return fields, err
}

// SetCustomFields stores the user-defined contact fields
func (s *Store) SetCustomFields(ctx context.Context, scope string, fields []CustomField) error {
	return s.Put(ctx, scope, KeyCustomFields, fields)
}

// SectionOrder returns the preferred display order of sections
func (s *Store) SectionOrder(ctx context.Context, scope string) ([]types.ID, error) {
	ids := []types.ID{}
	_, err := s.Get(ctx, scope, KeySectionOrder, &ids)
	return ids, err
}

// SetSectionOrder stores the preferred display order of sections
func (s *Store) SetSectionOrder(ctx context.Context, scope string, ids []types.ID) error {
	return s.Put(ctx, scope, KeySectionOrder, ids)
}

// ContactOrder returns the preferred order of contact fields
func (s *Store) ContactOrder(ctx context.Context, scope string) ([]string, error) {
	keys := []string{}
	_, err := s.Get(ctx, scope, KeyContactOrder, &keys)
	return keys, err
}

// SetContactOrder stores the preferred order of contact fields
func (s *Store) SetContactOrder(ctx context.Context, scope string, keys []string) error {
	return s.Put(ctx, scope, KeyContactOrder, keys)
}

// CachedKeywords returns the last fetched job description keyword set, or nil
func (s *Store) CachedKeywords(ctx context.Context, scope string) (*types.JDKeywordSet, error) {
	var set types.JDKeywordSet
	ok, err := s.Get(ctx, scope, KeyJDKeywords, &set)
	if err != nil || !ok {
		return nil, err
	}
	return &set, nil
}

// SetCachedKeywords caches a job description keyword set
func (s *Store) SetCachedKeywords(ctx context.Context, scope string, set *types.JDKeywordSet) error {
	if set == nil {
		return s.Delete(ctx, scope, KeyJDKeywords)
	}
	return s.Put(ctx, scope, KeyJDKeywords, set)
}
