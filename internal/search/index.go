// Package search provides full-text search over a document snapshot using
// an in-memory bleve index.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"git.home.luguber.info/inful/docengine/internal/docs"
)

const (
	// DefaultLimit is used when a search does not ask for a result count.
	DefaultLimit = 10
	// MaxLimit caps the number of hits returned by a single search.
	MaxLimit = 50

	batchSize = 100
)

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("search query is empty")

// Hit is a single search result.
type Hit struct {
	Slug  string  `json:"slug"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Index is a bleve index built from one snapshot.
type Index struct {
	index      bleve.Index
	snapshotID string
}

// bleve rejects empty document IDs, so the root slug is stored as "/".
func docID(slug string) string { return "/" + slug }

func slugFromID(id string) string { return strings.TrimPrefix(id, "/") }

// NewIndex indexes the slug, title, description and body of every document.
func NewIndex(snapshot *docs.Index) (*Index, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	batch := index.NewBatch()
	for _, doc := range snapshot.Documents() {
		record := map[string]any{
			"slug":        doc.Slug,
			"title":       doc.Title,
			"description": doc.Metadata.Description(),
			"body":        doc.Body,
		}
		if err := batch.Index(docID(doc.Slug), record); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to add %q to batch: %w", doc.Slug, err)
		}
		if batch.Size() >= batchSize {
			if err := index.Batch(batch); err != nil {
				_ = index.Close()
				return nil, fmt.Errorf("failed to index batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index final batch: %w", err)
		}
	}

	id := ""
	if snapshot != nil {
		id = snapshot.ID()
	}
	return &Index{index: index, snapshotID: id}, nil
}

// SnapshotID identifies the snapshot this index was built from.
func (i *Index) SnapshotID() string { return i.snapshotID }

// DocCount returns the number of indexed documents.
func (i *Index) DocCount() (uint64, error) { return i.index.DocCount() }

// Search runs a match query. A non-positive limit uses DefaultLimit; limits
// above MaxLimit are capped.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit
	req.Fields = []string{"title"}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Slug: slugFromID(h.ID), Score: h.Score}
		if title, ok := h.Fields["title"].(string); ok {
			hit.Title = title
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Close releases the index.
func (i *Index) Close() error { return i.index.Close() }
