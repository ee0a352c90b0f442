// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordStoreOperation tests store operation metric recording
func TestRecordStoreOperation(t *testing.T) {
	tests := []struct {
		name       string
		backend    string
		operation  string
		collection string
		err        error
	}{
		{name: "badger list", backend: "badger", operation: "list", collection: "content"},
		{name: "duckdb commit", backend: "duckdb", operation: "commit", collection: "batch"},
		{name: "memory get failure", backend: "memory", operation: "get", collection: "settings", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(StoreOperationErrors.WithLabelValues(tt.backend, tt.operation, tt.collection, "boom"))
			RecordStoreOperation(tt.backend, tt.operation, tt.collection, time.Millisecond, tt.err)
			after := testutil.ToFloat64(StoreOperationErrors.WithLabelValues(tt.backend, tt.operation, tt.collection, "boom"))

			want := before
			if tt.err != nil {
				want++
			}
			if after != want {
				t.Errorf("error counter = %v, want %v", after, want)
			}
		})
	}
}

// TestRecordStoreOperation_ErrorTruncation verifies error labels are truncated at 50 chars
func TestRecordStoreOperation_ErrorTruncation(t *testing.T) {
	long := strings.Repeat("x", 120)
	RecordStoreOperation("memory", "set", "content", time.Millisecond, errors.New(long))

	got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("memory", "set", "content", long[:maxErrorLabelLen]))
	if got < 1 {
		t.Errorf("truncated label counter = %v, want >= 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/admin/stats", "200"))
	RecordAPIRequest("GET", "/api/v1/admin/stats", StatusLabel(200), 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/admin/stats", "200"))
	if after != before+1 {
		t.Errorf("api_requests_total = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("api_active_requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
}

func TestRecordCatalogMutation(t *testing.T) {
	tests := []struct {
		err     error
		invalid bool
		result  string
	}{
		{result: "success"},
		{err: errors.New("write failed"), result: "failure"},
		{invalid: true, result: "invalid"},
	}

	for _, tt := range tests {
		before := testutil.ToFloat64(CatalogMutations.WithLabelValues("save_content", tt.result))
		RecordCatalogMutation("save_content", tt.err, tt.invalid)
		if got := testutil.ToFloat64(CatalogMutations.WithLabelValues("save_content", tt.result)); got != before+1 {
			t.Errorf("catalog_mutations_total{result=%q} = %v, want %v", tt.result, got, before+1)
		}
	}
}

func TestRecordCacheAccess(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("test"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("test"))

	RecordCacheAccess("test", true)
	RecordCacheAccess("test", false)
	RecordCacheAccess("test", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("test")); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("test")); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestRecordUpload(t *testing.T) {
	bytesBefore := testutil.ToFloat64(BlobUploadBytes)
	RecordUpload("logos", 1024, nil)
	RecordUpload("logos", 4096, errors.New("disk full"))

	if got := testutil.ToFloat64(BlobUploadBytes); got != bytesBefore+1024 {
		t.Errorf("blob_upload_bytes_total = %v, want %v", got, bytesBefore+1024)
	}
}

func TestRecordCircuitBreakerTransition(t *testing.T) {
	tests := []struct {
		to   string
		want float64
	}{
		{to: "open", want: 2},
		{to: "half-open", want: 1},
		{to: "closed", want: 0},
	}

	from := "closed"
	for _, tt := range tests {
		RecordCircuitBreakerTransition("events-test", from, tt.to)
		if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("events-test")); got != tt.want {
			t.Errorf("state after -> %s = %v, want %v", tt.to, got, tt.want)
		}
		from = tt.to
	}
}

func TestRecordWSMessage(t *testing.T) {
	sent := testutil.ToFloat64(WSMessagesSent.WithLabelValues("search_results"))
	recv := testutil.ToFloat64(WSMessagesReceived.WithLabelValues("search"))

	RecordWSMessage("search_results", true)
	RecordWSMessage("search", false)

	if got := testutil.ToFloat64(WSMessagesSent.WithLabelValues("search_results")); got != sent+1 {
		t.Errorf("sent = %v, want %v", got, sent+1)
	}
	if got := testutil.ToFloat64(WSMessagesReceived.WithLabelValues("search")); got != recv+1 {
		t.Errorf("received = %v, want %v", got, recv+1)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "go1.24")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "go1.24")); got != 1 {
		t.Errorf("app_info = %v, want 1", got)
	}
}
