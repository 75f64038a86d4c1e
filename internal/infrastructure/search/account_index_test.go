package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
)

// fakeES answers like a single Elasticsearch node.
func fakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *elasticsearch.Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestIndexWritesDocument(t *testing.T) {
	var gotPath string
	var gotDoc map[string]any
	es := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotDoc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	end := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	acc := &entity.Account{ID: "a1", Name: "Alice", Email: "alice@example.com", Role: entity.RoleUser,
		ActivePlan: &entity.Entitlement{PlanID: "starter_1m", EndDate: end}}
	require.NoError(t, NewAccountIndex(es, "accounts").Index(context.Background(), acc))

	assert.Equal(t, "/accounts/_doc/a1", gotPath)
	assert.Equal(t, "alice@example.com", gotDoc["email"])
	assert.Equal(t, "starter_1m", gotDoc["planId"])
	assert.NotContains(t, gotDoc, "passwordHash")
}

func TestSearchParsesHits(t *testing.T) {
	es := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/accounts/_search"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"size":10`)
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_id":"a1","_source":{"id":"a1","name":"Alice","email":"alice@example.com","role":"user"}},
			{"_id":"b2","_source":{"name":"Bob","email":"bob@example.com","role":"admin"}}
		]}}`))
	})

	hits, err := NewAccountIndex(es, "accounts").Search(context.Background(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a1", hits[0].ID)
	assert.Equal(t, "b2", hits[1].ID)
	assert.Equal(t, "admin", hits[1].Role)
}

func TestSearchSurfacesErrors(t *testing.T) {
	es := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"}}`))
	})
	_, err := NewAccountIndex(es, "accounts").Search(context.Background(), "alice", 5)
	assert.Error(t, err)
}
