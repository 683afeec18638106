package server

import (
	"net/http"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/grouping"
	"github.com/jonathan/resume-editor/internal/types"
)

// UpdateFieldRequest sets one top-level field. Keys other than name, title and
// summary are contact fields.
type UpdateFieldRequest struct {
	Field string `json:"field" validate:"required,max=100"`
	Value string `json:"value" validate:"max=5000"`
}

// MoveSectionRequest moves a section one slot
type MoveSectionRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// MoveGroupRequest moves a company group within its section
type MoveGroupRequest struct {
	From *int `json:"from" validate:"required,min=0"`
	To   *int `json:"to" validate:"required,min=0"`
}

// AddBulletRequest appends a bullet, or inserts it after an existing one
type AddBulletRequest struct {
	After types.ID `json:"after,omitempty"`
}

// UpdateBulletRequest replaces a bullet's text
type UpdateBulletRequest struct {
	Text string `json:"text" validate:"max=5000"`
}

// ToggleBulletRequest flips a bullet's visibility, or sets it when Visible is given
type ToggleBulletRequest struct {
	Visible *bool `json:"visible,omitempty"`
}

// GroupResponse describes one company group of a section
type GroupResponse struct {
	Index     int                 `json:"index"`
	HasHeader bool                `json:"has_header"`
	Hidden    bool                `json:"hidden"`
	Header    *types.HeaderFields `json:"header,omitempty"`
	Bullets   []types.Bullet      `json:"bullets"`
}

// edit runs fn against the session named in the path and writes the result
func (s *Server) edit(w http.ResponseWriter, r *http.Request, fn func(*editor.Editor) *types.ResumeDocument) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respondDocument(w, sess, fn(sess.editor))
}

// handleUpdateField sets a name, title, summary or contact field
func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	var req UpdateFieldRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		return ed.UpdateField(req.Field, req.Value)
	})
}

// handleToggleField flips the visibility of a top-level field
func (s *Server) handleToggleField(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		return ed.ToggleFieldVisibility(field)
	})
}

// handleAddSection appends a uniquely named empty section
func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, (*editor.Editor).AddSection)
}

// handleUpdateSection patches a section's title, visibility or bullets
func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var patch editor.SectionPatch
	if err := s.decodeJSON(w, r, &patch); err != nil {
		s.failure(w, r, err)
		return
	}
	sid := types.ID(r.PathValue("sid"))
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		return ed.UpdateSection(sid, patch)
	})
}

// handleRemoveSection deletes a section
func (s *Server) handleRemoveSection(w http.ResponseWriter, r *http.Request) {
	sid := types.ID(r.PathValue("sid"))
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		return ed.RemoveSection(sid)
	})
}

// handleMoveSection swaps a section with its neighbour
func (s *Server) handleMoveSection(w http.ResponseWriter, r *http.Request) {
	var req MoveSectionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	sid := types.ID(r.PathValue("sid"))
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		if req.Direction == "up" {
			return ed.MoveSectionUp(sid)
		}
		return ed.MoveSectionDown(sid)
	})
}

// handleToggleSection flips a section's visibility
func (s *Server) handleToggleSection(w http.ResponseWriter, r *http.Request) {
	sid := types.ID(r.PathValue("sid"))
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		return ed.ToggleSectionVisibility(sid)
	})
}

// handleListGroups returns the company groups of a section. An unknown section has none.
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	groups := sess.editor.Groups(types.ID(r.PathValue("sid")))
	s.jsonResponse(w, http.StatusOK, map[string]any{"groups": groupResponses(groups)})
}

func groupResponses(groups []grouping.CompanyGroup) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for i, g := range groups {
		resp := GroupResponse{
			Index:     i,
			HasHeader: g.HasHeader,
			Hidden:    g.Hidden(),
			Bullets:   g.Bullets,
		}
		if h, ok := g.Header(); ok {
			if fields, ok := grouping.ParseHeader(h.Text); ok {
				resp.Header = &fields
			}
		}
		out = append(out, resp)
	}
	return out
}

// handleMoveGroup moves a company group to a new index within its section
func (s *Server) handleMoveGroup(w http.ResponseWriter, r *http.Request) {
	var req MoveGroupRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	sid := types.ID(r.PathValue("sid"))
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		return ed.MoveGroup(sid, *req.From, *req.To)
	})
}

// handleAddBullet appends an empty bullet or inserts one after req.After
func (s *Server) handleAddBullet(w http.ResponseWriter, r *http.Request) {
	var req AddBulletRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	sid := types.ID(r.PathValue("sid"))
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		if req.After != "" {
			return ed.InsertBulletAfter(sid, req.After)
		}
		return ed.AddBullet(sid)
	})
}

// handleUpdateBullet replaces a bullet's text
func (s *Server) handleUpdateBullet(w http.ResponseWriter, r *http.Request) {
	var req UpdateBulletRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	sid, bid := types.ID(r.PathValue("sid")), types.ID(r.PathValue("bid"))
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		return ed.UpdateBullet(sid, bid, req.Text)
	})
}

// handleRemoveBullet deletes a bullet
func (s *Server) handleRemoveBullet(w http.ResponseWriter, r *http.Request) {
	sid, bid := types.ID(r.PathValue("sid")), types.ID(r.PathValue("bid"))
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		return ed.RemoveBullet(sid, bid)
	})
}

// handleToggleBullet hides or shows a bullet. Toggling a header moves its
// whole company group.
func (s *Server) handleToggleBullet(w http.ResponseWriter, r *http.Request) {
	var req ToggleBulletRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	sid, bid := types.ID(r.PathValue("sid")), types.ID(r.PathValue("bid"))
	s.edit(w, r, func(ed *editor.Editor) *types.ResumeDocument {
		if req.Visible != nil {
			return ed.SetBulletVisibility(sid, bid, *req.Visible)
		}
		return ed.ToggleBulletVisibility(sid, bid)
	})
}
