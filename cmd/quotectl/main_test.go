package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quote-backend/internal/handlers"
	"quote-backend/internal/models"
	"quote-backend/internal/pricing"
	"quote-backend/internal/workflow"
)

func fakeServer(t *testing.T, orders *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/pricing", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(handlers.PricingResponse(pricing.Default()))
	})
	mux.HandleFunc("/analyze-document", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.AnalyzeResponse{WordCount: 900, PageCount: 2})
	})
	mux.HandleFunc("/submit-order", func(w http.ResponseWriter, r *http.Request) {
		*orders++
		w.Header().Set(models.HeaderOrderReference, "ref-42")
		_ = json.NewEncoder(w).Encode(models.SubmitOrderResponse{Success: true, Message: "Order submitted successfully!"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "essay.txt")
	require.NoError(t, os.WriteFile(path, []byte("some words"), 0o644))
	return path
}

func TestPricingCommand(t *testing.T) {
	var orders int
	srv := fakeServer(t, &orders)

	out, err := run(t, "", "pricing", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Words per page: 450")
	assert.Contains(t, out, "Fast delivery: $10.00 per page")
}

func TestAnalyzeCommand(t *testing.T) {
	var orders int
	srv := fakeServer(t, &orders)

	out, err := run(t, "", "analyze", writeDoc(t), "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Words: 900")
	assert.Contains(t, out, "Pages: 2")
}

func TestOrderCommand_Confirmed(t *testing.T) {
	var orders int
	srv := fakeServer(t, &orders)

	out, err := run(t, "y\n", "order", writeDoc(t), "--server", srv.URL,
		"--service", "translation", "--service", "rephrasing", "--delivery", "fast", "--email", "a@b.co")
	require.NoError(t, err)
	assert.Contains(t, out, "Services: Rephrasing, Translation")
	assert.Contains(t, out, "Delivery: Fast delivery ($20 per page)")
	assert.Contains(t, out, "Total: $40.00")
	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, out, "Reference: ref-42")
	assert.Equal(t, 1, orders)
}

func TestOrderCommand_Declined(t *testing.T) {
	var orders int
	srv := fakeServer(t, &orders)

	_, err := run(t, "\n", "order", writeDoc(t), "--server", srv.URL, "--service", "rephrasing", "--email", "a@b.co")
	assert.ErrorIs(t, err, workflow.ErrNotConfirmed)
	assert.Zero(t, orders)
}

func TestOrderCommand_InvalidEmail(t *testing.T) {
	var orders int
	srv := fakeServer(t, &orders)

	_, err := run(t, "", "order", writeDoc(t), "--server", srv.URL, "--service", "rephrasing", "--email", "abc", "--yes")
	assert.ErrorIs(t, err, workflow.ErrInvalidEmail)
	assert.Zero(t, orders)
}

func TestOrderCommand_UnknownService(t *testing.T) {
	_, err := run(t, "", "order", "missing.txt", "--service", "proofreading")
	assert.Error(t, err)
}
