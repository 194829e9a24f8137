package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_MapsSentinels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err        error
		wantCode   int
		wantStatus string
	}{
		{fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{fmt.Errorf("%w: tournament=x", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: bad token", usecase.ErrUnauthorized), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{usecase.ErrSyncInProgress, http.StatusConflict, "ABORTED"},
		{fmt.Errorf("%w: API token not configured", usecase.ErrConfiguration), http.StatusPreconditionFailed, "FAILED_PRECONDITION"},
		{usecase.ErrKeyNotConfigured, http.StatusPreconditionFailed, "FAILED_PRECONDITION"},
		{fmt.Errorf("%w: start.gg down", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(context.Background(), rec, tc.err)

		if rec.Code != tc.wantCode {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.wantCode, rec.Code)
		}
		var body map[string]any
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response body: %v", err)
		}
		errorObj, ok := body["error"].(map[string]any)
		if !ok {
			t.Fatalf("expected error object in response")
		}
		if got, _ := errorObj["status"].(string); got != tc.wantStatus {
			t.Fatalf("%v: expected error status %s, got %v", tc.err, tc.wantStatus, errorObj["status"])
		}
		if wantRetry := tc.wantCode == http.StatusConflict; (rec.Header().Get("Retry-After") != "") != wantRetry {
			t.Fatalf("%v: unexpected Retry-After %q", tc.err, rec.Header().Get("Retry-After"))
		}
	}
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: relation startgg_tournaments does not exist"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "startgg_tournaments") {
		t.Fatalf("internal cause leaked: %s", rec.Body.String())
	}
}
