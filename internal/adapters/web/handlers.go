package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/corey/rfcguide/internal/common"
	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/corey/rfcguide/internal/domain/usage"
	"github.com/corey/rfcguide/internal/ports"
)

// HealthResult is the body of GET /api/health.
type HealthResult struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Catalog       string  `json:"catalog"`
	Entries       int     `json:"entries"`
	Uptime        string  `json:"uptime"`
	LookupsPerMin float64 `json:"lookups_per_min"`
}

// CategoryInfo is one row of GET /api/categories.
type CategoryInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoriesResult is the body of GET /api/categories.
type CategoriesResult struct {
	Categories []CategoryInfo `json:"categories"`
}

// EntriesResult is the body of GET /api/entries.
type EntriesResult struct {
	Category string           `json:"category"`
	Query    string           `json:"query,omitempty"`
	Entries  []glossary.Entry `json:"entries"`
	Count    int              `json:"count"`
}

// EntryResult is the body of GET /api/entries/{id}.
type EntryResult struct {
	Entry   glossary.Entry   `json:"entry"`
	Related []glossary.Entry `json:"related"`
}

// ResolveResult is the body of GET /api/resolve. A miss is a normal result
// with Found false.
type ResolveResult struct {
	Query string          `json:"query"`
	Key   string          `json:"key"`
	Found bool            `json:"found"`
	Match string          `json:"match"`
	Entry *glossary.Entry `json:"entry,omitempty"`
}

// AnnotateRequest is the body of POST /api/annotate.
type AnnotateRequest struct {
	Text string `json:"text"`
}

// AnnotateResult is the response of POST /api/annotate.
type AnnotateResult struct {
	Mentions []ports.Mention `json:"mentions"`
	Count    int             `json:"count"`
}

// StatsResult is the body of GET /api/stats.
type StatsResult struct {
	Lookups        uint64        `json:"lookups"`
	DistinctHits   int           `json:"distinct_hits"`
	DistinctMisses int           `json:"distinct_misses"`
	TopHits        []usage.Count `json:"top_hits"`
	TopMisses      []usage.Count `json:"top_misses"`
	UpdatedAt      int64         `json:"updated_at,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResult{
		Status:  "ok",
		Version: common.Version,
		Catalog: s.queries.CatalogSource(),
		Entries: s.queries.Catalog().Len(),
		Uptime:  time.Since(s.started).Round(time.Second).String(),

		LookupsPerMin: s.queries.LookupsPerMinute(),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	c := s.queries.Catalog()
	counts := c.CategoryCounts()

	var result CategoriesResult
	for _, cat := range c.Categories() {
		n := counts[cat]
		if cat == glossary.CategoryAll {
			n = c.Len()
		}
		result.Categories = append(result.Categories, CategoryInfo{Name: cat.String(), Count: n})
	}
	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	cat, err := glossary.ParseFilter(r.URL.Query().Get("category"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query().Get("q")

	entries := s.queries.Catalog().Search(q, cat)
	WriteJSON(w, http.StatusOK, EntriesResult{
		Category: cat.String(),
		Query:    q,
		Entries:  entries,
		Count:    len(entries),
	})
}

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c := s.queries.Catalog()

	e, ok := c.EntryByID(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "no entry with id "+strconv.Quote(id))
		return
	}
	WriteJSON(w, http.StatusOK, EntryResult{Entry: e, Related: c.Related(id)})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	e, kind := s.queries.Lookup(q)

	result := ResolveResult{
		Query: q,
		Key:   glossary.Normalize(q),
		Found: kind != glossary.MatchNone,
		Match: kind.String(),
	}
	if result.Found {
		result.Entry = &e
	}
	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxAnnotateBytes)

	var req AnnotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			WriteError(w, http.StatusRequestEntityTooLarge, "request body exceeds 1 MiB")
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	mentions := s.queries.Annotate(req.Text)
	WriteJSON(w, http.StatusOK, AnnotateResult{Mentions: mentions, Count: len(mentions)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			WriteError(w, http.StatusBadRequest, "n must be a non-negative integer")
			return
		}
		n = parsed
	}

	WriteJSON(w, http.StatusOK, BuildStats(s.queries.UsageSnapshot(), n))
}

func (s *Server) handleResetStats(w http.ResponseWriter, r *http.Request) {
	if err := s.queries.ResetUsage(); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// BuildStats summarizes a usage snapshot with the n most frequent hits and
// misses (all of them when n is 0).
func BuildStats(stats *ports.UsageStats, n int) StatsResult {
	if stats == nil {
		stats = ports.NewUsageStats()
	}
	return StatsResult{
		Lookups:        stats.Lookups,
		DistinctHits:   len(stats.Hits),
		DistinctMisses: len(stats.Misses),
		TopHits:        usage.TopHits(stats, n),
		TopMisses:      usage.TopMisses(stats, n),
		UpdatedAt:      stats.UpdatedAt,
	}
}
