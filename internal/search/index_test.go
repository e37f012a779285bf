package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type esCall struct {
	Method string
	Path   string
	Body   string
}

func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*Index, *[]esCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []esCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, esCall{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return New(es, "products"), &calls
}

func TestIndexProductAndDelete(t *testing.T) {
	idx, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	err := idx.IndexProduct(context.Background(), models.Product{ID: 12, Name: "Galaxy", Description: "phone", Category: "Smartphones"})
	require.NoError(t, err)
	require.NoError(t, idx.DeleteProduct(context.Background(), 12))

	require.Len(t, *calls, 2)
	put := (*calls)[0]
	assert.Equal(t, "/products/_doc/12", put.Path)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(put.Body), &doc))
	assert.Equal(t, "Galaxy", doc["name"])
	assert.Equal(t, "Smartphones", doc["category"])

	assert.Equal(t, http.MethodDelete, (*calls)[1].Method)
}

func TestSearchProducts(t *testing.T) {
	idx, calls := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":3},"hits":[{"_id":"4"},{"_id":"junk"},{"_id":"1"}]}}`)
	})

	ids, err := idx.SearchProducts(context.Background(), "galaxi", 5)
	require.NoError(t, err)
	assert.Equal(t, []uint{4, 1}, ids)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/products/_search", (*calls)[0].Path)
	assert.Contains(t, (*calls)[0].Body, `"fuzziness":"AUTO"`)
	assert.Contains(t, (*calls)[0].Body, `"size":5`)
}

func TestSearchProducts_Error(t *testing.T) {
	idx, _ := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"unavailable"}`)
	})

	_, err := idx.SearchProducts(context.Background(), "x", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestEnsureIndex(t *testing.T) {
	idx, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Len(t, *calls, 2)
	assert.Equal(t, http.MethodPut, (*calls)[1].Method)
	assert.Equal(t, "/products", (*calls)[1].Path)
	assert.Contains(t, (*calls)[1].Body, `"category":      {"type": "keyword"}`)
}
