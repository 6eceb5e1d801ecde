package glossary

import (
	"fmt"
	"regexp"
	"strings"
)

// IssueKind names a class of catalog data-quality problem.
type IssueKind string

const (
	IssueDuplicateID    IssueKind = "duplicate-id"
	IssueDuplicateTerm  IssueKind = "duplicate-term"
	IssueDanglingRef    IssueKind = "dangling-related"
	IssueSelfRef        IssueKind = "self-related"
	IssueEmptyField     IssueKind = "empty-field"
	IssueBadID          IssueKind = "bad-id"
	IssueUnresolvableID IssueKind = "unresolvable-id"
)

// Issue is one integrity finding against a specific entry.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	EntryID string    `json:"entry_id"`
	Detail  string    `json:"detail"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.Kind, i.EntryID, i.Detail)
}

var kebabID = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validate checks catalog integrity and returns every issue found, in catalog
// order. These are data bugs to fix in the catalog files; lookups keep
// working regardless (dangling references are skipped, duplicate ids resolve
// to the last entry, duplicate terms to the first).
func (c *Catalog) Validate() []Issue {
	var issues []Issue
	add := func(kind IssueKind, id, format string, args ...any) {
		issues = append(issues, Issue{Kind: kind, EntryID: id, Detail: fmt.Sprintf(format, args...)})
	}

	seenID := make(map[string]int, len(c.entries))
	seenTerm := make(map[string]string, len(c.entries))

	for i, e := range c.entries {
		if prev, dup := seenID[e.ID]; dup {
			add(IssueDuplicateID, e.ID, "entries %d and %d share this id", prev, i)
		}
		seenID[e.ID] = i

		if !kebabID.MatchString(e.ID) {
			add(IssueBadID, e.ID, "id is not lowercase kebab-case")
		}

		for _, f := range [...][2]string{{"id", e.ID}, {"term", e.Term}, {"definition", e.Definition}} {
			if strings.TrimSpace(f[1]) == "" {
				add(IssueEmptyField, e.ID, "%s is empty", f[0])
			}
		}

		if key := Normalize(e.Term); key != "" {
			if owner, dup := seenTerm[key]; dup {
				add(IssueDuplicateTerm, e.ID, "term %q normalizes to %q, already used by %q", e.Term, key, owner)
			} else {
				seenTerm[key] = e.ID
			}
		}

		for _, rel := range e.RelatedTerms {
			if rel == e.ID {
				add(IssueSelfRef, e.ID, "lists itself as related")
				continue
			}
			if _, ok := c.byID[rel]; !ok {
				add(IssueDanglingRef, e.ID, "related term %q does not exist", rel)
			}
		}
	}

	// Every id must resolve back to its own entry, otherwise the id fallback
	// or a colliding term shadows it.
	for i, e := range c.entries {
		if c.byID[e.ID] != i {
			continue // shadowed duplicate, already reported
		}
		got, ok := c.Resolve(e.ID)
		switch {
		case !ok:
			add(IssueUnresolvableID, e.ID, "id does not resolve; normalized %q is neither a term nor an id", Normalize(e.ID))
		case got.ID != e.ID:
			add(IssueUnresolvableID, e.ID, "id resolves to %q instead", got.ID)
		}
	}

	return issues
}
