package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *HTTPClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(&HTTPConfig{BaseURL: server.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewHTTPClient returned error: %v", err)
	}
	return server, client
}

func TestHTTPClientStartJob(t *testing.T) {
	var gotBody startJobRequest
	var gotAuth string

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/text-detection/jobs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(startJobResponse{JobID: "job-42"})
	})

	jobID, err := client.StartJob(context.Background(), "bucket1", "folder/scan.pdf")
	if err != nil {
		t.Fatalf("StartJob returned error: %v", err)
	}
	if jobID != "job-42" {
		t.Errorf("jobID = %q, want job-42", jobID)
	}
	if gotBody.Bucket != "bucket1" || gotBody.Key != "folder/scan.pdf" {
		t.Errorf("request body = %+v", gotBody)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestHTTPClientStartJobError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(startJobResponse{Error: "unsupported document"})
	})

	if _, err := client.StartJob(context.Background(), "bucket1", "bad.bin"); err == nil {
		t.Fatal("StartJob should surface API errors")
	}
}

func TestHTTPClientGetJobPagePagination(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-detection/jobs/job-42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.URL.Query().Get("next_token") {
		case "":
			json.NewEncoder(w).Encode(jobStatusResponse{
				Status:    string(StatusSucceeded),
				Lines:     []string{"A", "B"},
				NextToken: "t1",
			})
		case "t1":
			json.NewEncoder(w).Encode(jobStatusResponse{
				Status: string(StatusSucceeded),
				Lines:  []string{"C"},
			})
		default:
			t.Errorf("unexpected token %q", r.URL.Query().Get("next_token"))
		}
	})

	first, err := client.GetJobPage(context.Background(), "job-42", "")
	if err != nil {
		t.Fatalf("GetJobPage returned error: %v", err)
	}
	if first.Status != StatusSucceeded || !reflect.DeepEqual(first.Lines, []string{"A", "B"}) || first.NextToken != "t1" {
		t.Errorf("first page = %+v", first)
	}

	second, err := client.GetJobPage(context.Background(), "job-42", "t1")
	if err != nil {
		t.Fatalf("GetJobPage returned error: %v", err)
	}
	if !reflect.DeepEqual(second.Lines, []string{"C"}) || second.NextToken != "" {
		t.Errorf("second page = %+v", second)
	}
}

func TestHTTPClientGetJobPageStatusPassthrough(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobStatusResponse{
			Status:        "FAILED",
			StatusMessage: "document corrupted",
		})
	})

	page, err := client.GetJobPage(context.Background(), "job-42", "")
	if err != nil {
		t.Fatalf("GetJobPage returned error: %v", err)
	}
	if page.Status != StatusFailed {
		t.Errorf("status = %q, want FAILED", page.Status)
	}
	if page.StatusMessage != "document corrupted" {
		t.Errorf("status message = %q", page.StatusMessage)
	}
}

func TestHTTPClientDetectLines(t *testing.T) {
	var gotContentType string
	var gotLen int

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-detection/detect" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotContentType = r.Header.Get("Content-Type")
		body := make([]byte, 1024)
		n, _ := r.Body.Read(body)
		gotLen = n
		json.NewEncoder(w).Encode(detectResponse{Lines: []string{"Hello", "world"}})
	})

	lines, err := client.DetectLines(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47})
	if err != nil {
		t.Fatalf("DetectLines returned error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"Hello", "world"}) {
		t.Errorf("lines = %v", lines)
	}
	if gotContentType != "application/octet-stream" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotLen != 4 {
		t.Errorf("body length = %d, want 4", gotLen)
	}
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPClient(&HTTPConfig{}); err == nil {
		t.Fatal("NewHTTPClient should reject an empty base URL")
	}
}
