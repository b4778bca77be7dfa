// Package search provides ad hoc full-text search over a revision's diff
// lines. Unlike the correlation engine, which ranks lines with fixed
// deterministic arithmetic, this is a free-form query surface backed by an
// in-memory Bleve index built per revision and discarded with it.
package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/reviewflow/differential-mcp/internal/domain"
	"github.com/reviewflow/differential-mcp/internal/review"
)

// Bleve field name constants for consistent references in queries and mappings.
const (
	FieldFilePath = "file_path"
	FieldLine     = "line"
	FieldRole     = "role"
	FieldContent  = "content"
)

// diffLineDoc is one indexed diff line.
type diffLineDoc struct {
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
	Role     string `json:"role"`
	Content  string `json:"content"`
}

// Hit is one search result.
type Hit struct {
	FilePath string
	Line     int
	Role     string
	Content  string
	Score    float64
}

// Index is an in-memory full-text index over the diff lines of one revision.
type Index struct {
	idx bleve.Index
}

// NewIndex builds an in-memory index from the given diff files. Blank lines
// are skipped; line numbers use the same new-file coordinates as the
// correlation engine.
func NewIndex(files []domain.DiffFile) (*Index, error) {
	idx, err := bleve.NewMemOnly(createMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create diff index: %w", err)
	}

	batch := idx.NewBatch()
	for _, file := range files {
		for _, hunk := range file.Hunks {
			for i, raw := range hunk.Corpus {
				content, role := review.SplitMarker(raw)
				if strings.TrimSpace(content) == "" {
					continue
				}
				line := hunk.NewOffset + i
				doc := diffLineDoc{
					FilePath: file.NewPath,
					Line:     line,
					Role:     string(role),
					Content:  content,
				}
				id := fmt.Sprintf("%s:%d", file.NewPath, line)
				if err := batch.Index(id, doc); err != nil {
					_ = idx.Close()
					return nil, fmt.Errorf("failed to index %s: %w", id, err)
				}
			}
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to commit diff index batch: %w", err)
	}

	return &Index{idx: idx}, nil
}

func createMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = standard.Name
	contentField.Store = true
	docMapping.AddFieldMappingsAt(FieldContent, contentField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Analyzer = keyword.Name
	pathField.Store = true
	docMapping.AddFieldMappingsAt(FieldFilePath, pathField)

	roleField := bleve.NewTextFieldMapping()
	roleField.Analyzer = keyword.Name
	roleField.Store = true
	docMapping.AddFieldMappingsAt(FieldRole, roleField)

	lineField := bleve.NewNumericFieldMapping()
	lineField.Store = true
	docMapping.AddFieldMappingsAt(FieldLine, lineField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// Search runs a match query over line content, optionally filtered to a file
// path, and returns up to limit hits ordered by Bleve relevance. Single-term
// queries also match inside identifiers, so "server" finds startServer.
func (x *Index) Search(queryStr, filePath string, limit int) ([]Hit, error) {
	contentQuery := bleve.NewMatchQuery(queryStr)
	contentQuery.SetField(FieldContent)

	var searchQuery query.Query = contentQuery
	if terms := strings.Fields(queryStr); len(terms) == 1 {
		// The standard analyzer keeps camelCase identifiers as one token, so
		// the match query alone cannot see "server" inside startServer. The
		// wildcard query compares against indexed terms directly and needs
		// the analyzer's lowercasing applied by hand.
		wildcard := bleve.NewWildcardQuery("*" + strings.ToLower(terms[0]) + "*")
		wildcard.SetField(FieldContent)
		searchQuery = bleve.NewDisjunctionQuery(contentQuery, wildcard)
	}

	if filePath != "" {
		pathQuery := bleve.NewTermQuery(filePath)
		pathQuery.SetField(FieldFilePath)
		searchQuery = bleve.NewConjunctionQuery(searchQuery, pathQuery)
	}

	req := bleve.NewSearchRequest(searchQuery)
	req.Size = limit
	req.Fields = []string{FieldFilePath, FieldLine, FieldRole, FieldContent}

	results, err := x.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("diff search failed: %w", err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, h := range results.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields[FieldFilePath].(string); ok {
			hit.FilePath = v
		}
		if v, ok := h.Fields[FieldLine].(float64); ok {
			hit.Line = int(v)
		}
		if v, ok := h.Fields[FieldRole].(string); ok {
			hit.Role = v
		}
		if v, ok := h.Fields[FieldContent].(string); ok {
			hit.Content = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Close releases the index.
func (x *Index) Close() error {
	return x.idx.Close()
}
