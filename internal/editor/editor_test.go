package editor

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-editor/internal/grouping"
	"github.com/jonathan/resume-editor/internal/types"
)

const testHold = 5 * time.Millisecond

func fixedClock() func() time.Time {
	return func() time.Time { return time.UnixMilli(1_700_000_000_000) }
}

func newTestEditor(t *testing.T, doc *types.ResumeDocument) *Editor {
	t.Helper()
	e := New(doc, Options{ReplayHold: testHold, IDs: NewIDSource(fixedClock())})
	t.Cleanup(e.Close)
	return e
}

// waitReplay blocks until an undo or redo hold has expired
func waitReplay(t *testing.T, e *Editor) {
	t.Helper()
	require.Eventually(t, func() bool { return !e.tracker.Replaying() }, time.Second, time.Millisecond)
}

func assertHiddenLast(t *testing.T, s types.Section) {
	t.Helper()
	seenHidden := false
	for _, g := range grouping.Partition(s.Bullets) {
		if g.Hidden() {
			seenHidden = true
			continue
		}
		assert.False(t, seenHidden, "visible group after a hidden one in %v", bulletIDs(s))
	}
}

func TestEditor_HideThenShowSingleGroup(t *testing.T) {
	e := newTestEditor(t, document(section("s1", "Work Experience",
		bullet("h1", "**Acme Corp / Engineer / 2020-Present**"),
		bullet("d1", "• Built the billing pipeline"),
		bullet("d2", "• Led a team of four"),
	)))

	doc := e.ToggleBulletVisibility("s1", "h1")
	header := doc.Sections[0].Bullets[0]
	require.NotNil(t, header.Params.Visible)
	assert.False(t, *header.Params.Visible)
	assert.Equal(t, []string{"h1", "d1", "d2"}, bulletIDs(doc.Sections[0]))

	doc = e.ToggleBulletVisibility("s1", "h1")
	assert.True(t, doc.Sections[0].Bullets[0].Params.IsVisible())
	assert.Equal(t, []string{"h1", "d1", "d2"}, bulletIDs(doc.Sections[0]))
}

func TestEditor_HiddenGroupMovesAsBlockAndReturns(t *testing.T) {
	e := newTestEditor(t, document(workSection()))

	doc := e.ToggleBulletVisibility("s1", "h1")
	s := doc.Sections[0]
	assert.Equal(t, []string{"h2", "d3", "h1", "d1", "d2"}, bulletIDs(s))
	assert.False(t, *s.Bullets[2].Params.Visible)
	assertHiddenLast(t, s)

	doc = e.ToggleBulletVisibility("s1", "h1")
	s = doc.Sections[0]
	assert.Equal(t, []string{"h1", "d1", "d2", "h2", "d3"}, bulletIDs(s))
	assert.True(t, *s.Bullets[0].Params.Visible)
}

func TestEditor_HiddenLastAcrossManyToggles(t *testing.T) {
	e := newTestEditor(t, document(section("s1", "Work Experience",
		bullet("lead", "• Headerless note"),
		bullet("a", "**A / Eng / 2021**"), bullet("a1", "• a1"),
		bullet("b", "**B / Eng / 2020**"), bullet("b1", "• b1"),
		bullet("c", "**C / Eng / 2019**"),
		bullet("d", "**D / Eng / 2018**"), bullet("d1", "• d1"),
	)))

	for _, id := range []types.ID{"b", "d", "a", "b1", "b", "c", "d", "a"} {
		doc := e.ToggleBulletVisibility("s1", id)
		assertHiddenLast(t, doc.Sections[0])
		assert.Len(t, doc.Sections[0].Bullets, 8)
	}
}

func TestEditor_ShowKeepsHiddenLastWhenAnchorHidden(t *testing.T) {
	e := newTestEditor(t, document(workSection()))

	e.ToggleBulletVisibility("s1", "h1")
	e.ToggleBulletVisibility("s1", "h2")
	doc := e.ToggleBulletVisibility("s1", "h1")

	s := doc.Sections[0]
	assertHiddenLast(t, s)
	assert.Equal(t, []string{"h1", "d1", "d2", "h2", "d3"}, bulletIDs(s))
	assert.True(t, s.Bullets[0].Params.IsVisible())
	assert.True(t, s.Bullets[3].Params.IsHidden())
}

func TestEditor_SetBulletVisibility(t *testing.T) {
	e := newTestEditor(t, document(workSection()))

	doc := e.SetBulletVisibility("s1", "h1", false)
	assert.Equal(t, []string{"h2", "d3", "h1", "d1", "d2"}, bulletIDs(doc.Sections[0]))

	doc = e.SetBulletVisibility("s1", "h1", true)
	assert.Equal(t, []string{"h1", "d1", "d2", "h2", "d3"}, bulletIDs(doc.Sections[0]))
}

func TestEditor_MissingIDsAreNoOps(t *testing.T) {
	e := newTestEditor(t, document(workSection()))
	before := e.Document()

	doc := e.UpdateBullet("sectionX", "missing-id", "new text")
	assert.Same(t, before, doc)
	assert.Equal(t, before, doc)

	e.ToggleBulletVisibility("s1", "missing")
	e.SetBulletVisibility("missing", "h1", false)
	e.InsertBulletAfter("s1", "missing")
	e.AddBullet("missing")
	e.RemoveBullet("s1", "missing")
	e.RemoveSection("missing")
	e.MoveSectionUp("s1")
	e.MoveGroup("s1", 0, 9)

	assert.Same(t, before, e.Document())
	assert.Equal(t, 1, e.HistoryLen())
	assert.False(t, e.CanUndo())
}

func TestEditor_NoOpIsLoggedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	e := New(document(workSection()), Options{Logger: logger, ReplayHold: testHold})
	defer e.Close()

	e.UpdateBullet("s1", "missing", "x")

	assert.Contains(t, buf.String(), `"op":"update_bullet"`)
	assert.Contains(t, buf.String(), "edit had no effect")
}

func TestEditor_DropsDuplicateTitlesOnLoad(t *testing.T) {
	var buf bytes.Buffer
	e := New(document(
		section("1", "Skills"),
		section("2", "SKILLS"),
		section("3", "Projects"),
	), Options{Logger: zerolog.New(&buf), ReplayHold: testHold})
	defer e.Close()

	assert.Equal(t, []string{"Skills", "Projects"}, sectionTitles(e.Document()))
	assert.Contains(t, buf.String(), "dropped section with duplicate title")
}

func TestEditor_DropsSectionRenamedToDuplicate(t *testing.T) {
	e := newTestEditor(t, document(section("1", "Skills"), section("2", "Projects")))
	title := " skills"

	doc := e.UpdateSection("2", SectionPatch{Title: &title})

	assert.Equal(t, []string{"Skills"}, sectionTitles(doc))
}

func TestEditor_BlankTitlesAreDuplicates(t *testing.T) {
	e := newTestEditor(t, document(section("1", ""), section("2", "Projects"), section("3", "Awards")))
	blank := " "

	doc := e.UpdateSection("3", SectionPatch{Title: &blank})

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, types.ID("1"), doc.Sections[0].ID)
	assert.Equal(t, "Projects", doc.Sections[1].Title)
}

func TestEditor_RemoveSectionSuppressionIsOneShot(t *testing.T) {
	e := newTestEditor(t, document(section("1", "Skills"), section("2", "Projects"), section("3", "Awards")))

	doc := e.RemoveSection("3")
	assert.Equal(t, []string{"Skills", "Projects"}, sectionTitles(doc))
	assert.False(t, e.suppressDedup)

	title := "SKILLS"
	doc = e.UpdateSection("2", SectionPatch{Title: &title})
	assert.Equal(t, []string{"Skills"}, sectionTitles(doc))
}

func TestEditor_MissedRemoveDoesNotSuppress(t *testing.T) {
	e := newTestEditor(t, document(section("1", "Skills"), section("2", "Projects")))

	e.RemoveSection("missing")
	assert.False(t, e.suppressDedup)
}

func TestEditor_AddSectionAndBulletsUseFreshIDs(t *testing.T) {
	e := newTestEditor(t, document(section("1700000000005", "Skills", bullet("1700000000009", "Go"))))

	doc := e.AddSection()
	added := doc.Sections[1]
	assert.Equal(t, "New Section", added.Title)
	assert.Equal(t, types.ID("1700000000010"), added.ID)
	assert.Equal(t, types.ID("1700000000011"), added.Bullets[0].ID)

	doc = e.AddSection()
	assert.Equal(t, "New Section 2", doc.Sections[2].Title)

	doc = e.InsertBulletAfter("1700000000005", "1700000000009")
	assert.Equal(t, []string{"1700000000009", "1700000000014"}, bulletIDs(doc.Sections[0]))
}

func TestEditor_UndoRedo(t *testing.T) {
	e := newTestEditor(t, document(section("s1", "Skills", bullet("b1", "Go"))))
	original := e.Document()

	edited := e.UpdateBullet("s1", "b1", "Go, Rust")
	require.True(t, e.CanUndo())

	doc, ok := e.Undo()
	require.True(t, ok)
	assert.Same(t, original, doc)
	assert.Same(t, original, e.Document())

	doc, ok = e.Redo()
	require.True(t, ok)
	assert.Same(t, edited, doc)

	_, ok = e.Redo()
	assert.False(t, ok)
}

func TestEditor_EditAfterUndoTruncatesRedo(t *testing.T) {
	e := newTestEditor(t, document())

	e.UpdateField(types.FieldName, "a")
	e.UpdateField(types.FieldName, "b")
	e.Undo()
	waitReplay(t, e)

	doc := e.UpdateField(types.FieldName, "c")
	assert.Equal(t, "c", doc.Name)
	assert.False(t, e.CanRedo())
	assert.Equal(t, 3, e.HistoryLen())
}

func TestEditor_EditRightAfterUndoIsRecorded(t *testing.T) {
	e := New(document(), Options{ReplayHold: time.Hour, IDs: NewIDSource(fixedClock())})
	t.Cleanup(e.Close)

	e.UpdateField(types.FieldName, "a")
	e.UpdateField(types.FieldName, "b")
	e.UpdateField(types.FieldName, "c")
	_, ok := e.Undo()
	require.True(t, ok)

	e.UpdateField(types.FieldName, "d")
	assert.False(t, e.CanRedo())
	assert.Equal(t, 4, e.HistoryLen())

	doc, ok := e.Undo()
	require.True(t, ok)
	assert.Equal(t, "b", doc.Name)
}

func TestEditor_RedoCannotDiscardEditAfterUndo(t *testing.T) {
	e := New(document(), Options{ReplayHold: time.Hour, IDs: NewIDSource(fixedClock())})
	t.Cleanup(e.Close)

	e.UpdateField(types.FieldName, "b")
	e.Undo()
	e.UpdateField(types.FieldName, "x")

	doc, ok := e.Redo()
	assert.False(t, ok)
	assert.Equal(t, "x", doc.Name)
}

func TestEditor_HistoryBounds(t *testing.T) {
	e := newTestEditor(t, document())

	for i := 1; i <= 60; i++ {
		e.UpdateField(types.FieldName, fmt.Sprint(i))
	}
	require.Equal(t, 50, e.HistoryLen())

	for i := 0; i < 49; i++ {
		_, ok := e.Undo()
		require.True(t, ok)
	}
	assert.Equal(t, "11", e.Document().Name)

	_, ok := e.Undo()
	assert.False(t, ok)
}

func TestEditor_ImportParsed(t *testing.T) {
	e := newTestEditor(t, document(section("old", "Old Section")))

	doc := e.ImportParsed(&types.ParsedResume{
		Name: "Grace Hopper",
		Jobs: []types.ParsedJob{
			{Company: "Acme", Role: "Engineer", Date: "2020 - Present", Bullets: []string{"Built compilers"}},
		},
		Sections: []types.ParsedSection{{Title: "Education", Items: []types.ParsedItem{{Title: "Yale", Date: "1934"}}}},
	})

	assert.Equal(t, "Grace Hopper", doc.Name)
	assert.Equal(t, []string{"Acme", "Education"}, sectionTitles(doc))
	assert.Equal(t, 2, e.HistoryLen())
}

func TestEditor_Highlights(t *testing.T) {
	e := newTestEditor(t, document(workSection(), section("s2", "Certifications", bullet("c1", "Billing expert"))))

	hl := e.Highlights(&types.JDKeywordSet{Matching: []string{"billing"}})

	require.Len(t, hl, 2)
	assert.False(t, hl[0].Excluded)
	assert.True(t, hl[1].Excluded)
}

func TestEditor_Groups(t *testing.T) {
	e := newTestEditor(t, document(workSection()))

	groups := e.Groups("s1")
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Bullets, 3)
	assert.Nil(t, e.Groups("missing"))
}
