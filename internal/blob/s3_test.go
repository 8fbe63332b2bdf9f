package blob

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	appcfg "github.com/fdg312/bmi-planner/internal/config"
)

func testS3Config(endpoint string) appcfg.S3Config {
	return appcfg.S3Config{
		Endpoint:          endpoint,
		Region:            "ru-central1",
		Bucket:            "exports-test",
		AccessKeyID:       "test-key",
		SecretAccessKey:   "test-secret",
		PresignTTLSeconds: 900,
	}
}

type recordedRequest struct {
	method      string
	path        string
	disposition string
	contentType string
}

func newFakeS3(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			disposition: r.Header.Get("Content-Disposition"),
			contentType: r.Header.Get("Content-Type"),
		})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestNewS3StoreRejectsIncompleteConfig(t *testing.T) {
	cfg := testS3Config("https://storage.yandexcloud.net")
	cfg.Bucket = ""

	_, err := NewS3Store(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "S3_BUCKET") {
		t.Fatalf("expected missing S3_BUCKET error, got %v", err)
	}
}

func TestS3StorePutSendsDownloadName(t *testing.T) {
	srv, reqs := newFakeS3(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	store, err := NewS3Store(context.Background(), testS3Config(srv.URL))
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	size, err := store.Put(context.Background(), File{
		Key:         "exports/alice/plan.txt",
		Filename:    "health_plan_20261016_0930.txt",
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte("plan body"),
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if size != int64(len("plan body")) {
		t.Fatalf("expected size %d, got %d", len("plan body"), size)
	}

	if len(*reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*reqs))
	}
	got := (*reqs)[0]
	if got.method != http.MethodPut {
		t.Fatalf("expected PUT, got %s", got.method)
	}
	if got.path != "/exports-test/exports/alice/plan.txt" {
		t.Fatalf("expected path-style key, got %s", got.path)
	}
	if got.disposition != "attachment; filename=health_plan_20261016_0930.txt" {
		t.Fatalf("unexpected Content-Disposition %q", got.disposition)
	}
	if got.contentType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected Content-Type %q", got.contentType)
	}
}

func TestS3StoreGetMissingKey(t *testing.T) {
	srv, _ := newFakeS3(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
	})

	store, err := NewS3Store(context.Background(), testS3Config(srv.URL))
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	if _, err := store.Get(context.Background(), "exports/alice/gone.pdf"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestS3StoreDownloadURL(t *testing.T) {
	store, err := NewS3Store(context.Background(), testS3Config("https://storage.yandexcloud.net"))
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	raw, err := store.DownloadURL(context.Background(), "exports/alice/plan.pdf", "health_plan_20261016_0930.pdf")
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	if u.Host != "storage.yandexcloud.net" || u.Path != "/exports-test/exports/alice/plan.pdf" {
		t.Fatalf("unexpected presigned target %s%s", u.Host, u.Path)
	}

	q := u.Query()
	if q.Get("X-Amz-Expires") != "900" {
		t.Fatalf("expected X-Amz-Expires=900, got %q", q.Get("X-Amz-Expires"))
	}
	if q.Get("response-content-disposition") != "attachment; filename=health_plan_20261016_0930.pdf" {
		t.Fatalf("unexpected response-content-disposition %q", q.Get("response-content-disposition"))
	}
}
