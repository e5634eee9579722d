package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atomBody = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>CLI Feed</title>
  <id>urn:cli</id>
  <updated>2024-01-02T03:04:05Z</updated>
  <entry><title>One</title><id>urn:1</id><updated>2024-01-02T03:04:05Z</updated></entry>
</feed>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/atom.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, atomBody)
	})
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><link rel="alternate" type="application/atom+xml" href="/atom.xml"></head></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDiscoverCommand_PrintsSummary(t *testing.T) {
	srv := newFeedServer(t)

	out, err := execute(t, "discover", srv.URL+"/")

	require.NoError(t, err)
	assert.Contains(t, out, "title:   CLI Feed")
	assert.Contains(t, out, "feed:    "+srv.URL+"/atom.xml")
	assert.Contains(t, out, "entries: 1")
}

func TestDiscoverCommand_JSON(t *testing.T) {
	srv := newFeedServer(t)

	out, err := execute(t, "discover", "--json", srv.URL+"/atom.xml")
	require.NoError(t, err)

	var results []result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Found)
	assert.Equal(t, "CLI Feed", results[0].Feed.Title)
}

func TestDiscoverCommand_NotFoundFails(t *testing.T) {
	srv := newFeedServer(t)

	out, err := execute(t, "discover", srv.URL+"/atom.xml", srv.URL+"/nothing.xml")

	assert.ErrorIs(t, err, errNotAllFound)
	assert.Contains(t, out, "CLI Feed")
	assert.Contains(t, out, "not found (")
}

func TestDiscoverCommand_RequiresURL(t *testing.T) {
	_, err := execute(t, "discover")
	assert.Error(t, err)
}

func TestDiscoverCommand_InvalidTimeout(t *testing.T) {
	_, err := execute(t, "discover", "--timeout", "0s", "https://example.com")
	assert.Error(t, err)
}

func TestDiscoverCommand_InvalidConcurrency(t *testing.T) {
	_, err := execute(t, "discover", "--concurrency", "0", "https://example.com")
	assert.Error(t, err)
}
