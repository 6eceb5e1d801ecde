package glossary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Catalog integrity: run against the shipped catalog and synthetic breakage
// =============================================================================

func TestValidate_ShippedCatalogIsClean(t *testing.T) {
	c := loadShipped(t)
	issues := c.Validate()
	for _, is := range issues {
		t.Errorf("catalog issue: %s", is)
	}
}

func TestValidate_ShippedReferentialIntegrity(t *testing.T) {
	c := loadShipped(t)
	for _, e := range c.Entries() {
		for _, rel := range e.RelatedTerms {
			_, ok := c.EntryByID(rel)
			assert.True(t, ok, "%s references missing %s", e.ID, rel)
		}
	}
}

func TestValidate_ShippedUniqueIDs(t *testing.T) {
	c := loadShipped(t)
	seen := make(map[string]bool)
	for _, e := range c.Entries() {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestValidate_FindsEveryKind(t *testing.T) {
	c := NewCatalog([]Entry{
		{ID: "tcp", Term: "TCP", Definition: "d", Category: CategoryProtocol, RelatedTerms: []string{"tcp", "ghost"}},
		{ID: "tcp", Term: "TCP again", Definition: "d", Category: CategoryProtocol},
		{ID: "Bad_ID", Term: "Bad", Definition: "d", Category: CategoryGeneral},
		{ID: "empty", Term: "Empty", Definition: "  ", Category: CategoryGeneral},
		{ID: "t-c-p", Term: "T.C.P.", Definition: "d", Category: CategoryProtocol},
		{ID: "long-name", Term: "Something Else", Definition: "d", Category: CategoryGeneral},
	})

	kinds := make(map[IssueKind][]string)
	for _, is := range c.Validate() {
		kinds[is.Kind] = append(kinds[is.Kind], is.EntryID)
	}

	assert.Equal(t, []string{"tcp"}, kinds[IssueDuplicateID])
	assert.Equal(t, []string{"tcp"}, kinds[IssueSelfRef])
	assert.Equal(t, []string{"tcp"}, kinds[IssueDanglingRef])
	assert.Equal(t, []string{"Bad_ID"}, kinds[IssueBadID])
	assert.Equal(t, []string{"empty"}, kinds[IssueEmptyField])
	assert.Equal(t, []string{"t-c-p"}, kinds[IssueDuplicateTerm])
	// "t-c-p" resolves to the first TCP by term; "long-name" normalizes to
	// "longname", which is neither a term nor an id.
	assert.ElementsMatch(t, []string{"Bad_ID", "t-c-p", "long-name"}, kinds[IssueUnresolvableID])
}

func TestIssue_String(t *testing.T) {
	is := Issue{Kind: IssueDanglingRef, EntryID: "tcp", Detail: `related term "x" does not exist`}
	assert.Equal(t, `dangling-related [tcp]: related term "x" does not exist`, is.String())
}
