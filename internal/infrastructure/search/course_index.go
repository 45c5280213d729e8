// Package search mirrors the course catalog into Elasticsearch for typeahead lookups.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/lincup/internal/domain/catalog"
)

const requestTimeout = 3 * time.Second

type courseDoc struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Mean        float64 `json:"meanRating"`
	ReviewCount int     `json:"reviewCount"`
}

type CourseIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewCourseIndex(es *elasticsearch.Client, index string) *CourseIndex {
	return &CourseIndex{ES: es, Index: index}
}

// IndexCourse upserts the course document keyed by course id.
func (i *CourseIndex) IndexCourse(ctx context.Context, s catalog.Summary) error {
	b, err := json.Marshal(courseDoc{
		ID:          s.Course.ID,
		Name:        s.Course.Name,
		Code:        s.Course.Code,
		Mean:        s.Mean,
		ReviewCount: s.ReviewCount,
	})
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: i.Index, DocumentID: s.Course.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index course %s: %s", s.Course.ID, res.Status())
	}
	return nil
}

// Suggest runs a bool_prefix multi_match over name and code.
func (i *CourseIndex) Suggest(ctx context.Context, prefix string, size int) ([]catalog.Suggestion, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  prefix,
				"type":   "bool_prefix",
				"fields": []string{"code^2", "name"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.ES.Search(
		i.ES.Search.WithContext(c),
		i.ES.Search.WithIndex(i.Index),
		i.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search courses: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source courseDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]catalog.Suggestion, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, catalog.Suggestion{
			ID:   h.Source.ID,
			Code: h.Source.Code,
			Name: h.Source.Name,
			Mean: h.Source.Mean,
		})
	}
	return out, nil
}
