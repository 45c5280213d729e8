package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lincup/internal/domain/catalog"
	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/pkg/helpers"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func fakeES(t *testing.T, status int, reply string) (*CourseIndex, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	es, err := helpers.NewESClient(helpers.ESOptions{Addrs: []string{srv.URL}, Transport: srv.Client().Transport})
	require.NoError(t, err)
	return NewCourseIndex(es, "courses"), &calls
}

func TestIndexCourse(t *testing.T) {
	idx, calls := fakeES(t, http.StatusCreated, `{"result":"created"}`)
	sum := catalog.Summarize(entity.Course{
		ID:      "c1",
		Name:    "Algorithms",
		Code:    "CSE 340",
		Reviews: []entity.Review{{Rating: 4}, {Rating: 5}},
	})

	require.NoError(t, idx.IndexCourse(context.Background(), sum))
	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/courses/_doc/c1", got.path)
	assert.Equal(t, "CSE 340", got.body["code"])
	assert.Equal(t, 4.5, got.body["meanRating"])
}

func TestIndexCourseError(t *testing.T) {
	idx, _ := fakeES(t, http.StatusBadRequest, `{"error":"bad"}`)
	err := idx.IndexCourse(context.Background(), catalog.Summarize(entity.Course{ID: "c1"}))
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	idx, calls := fakeES(t, http.StatusOK, `{"hits":{"hits":[
		{"_id":"c1","_source":{"id":"c1","name":"Algorithms","code":"CSE 340","meanRating":4.5,"reviewCount":2}},
		{"_id":"c2","_source":{"id":"c2","name":"Data Structures","code":"CSE 017","meanRating":0,"reviewCount":0}}
	]}}`)

	hits, err := idx.Suggest(context.Background(), "cse", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, catalog.Suggestion{ID: "c1", Code: "CSE 340", Name: "Algorithms", Mean: 4.5}, hits[0])

	got := (*calls)[0]
	assert.True(t, strings.HasSuffix(got.path, "/courses/_search"))
	mm := got.body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "bool_prefix", mm["type"])
	assert.Equal(t, "cse", mm["query"])
	assert.Equal(t, float64(5), got.body["size"])
}
