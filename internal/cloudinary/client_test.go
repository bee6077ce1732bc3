package cloudinary

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUploadRaw(t *testing.T) {
	var gotPath string
	var fields map[string]string
	var fileBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file part: %v", err)
		} else {
			b, _ := io.ReadAll(f)
			fileBody = string(b)
			f.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"public_id":"student-reports/job-1","secure_url":"https://cdn.example/job-1.pdf","resource_type":"raw","bytes":8}`)
	}))
	defer srv.Close()

	c := New("demo", "key", "secret", "student-reports")
	c.BaseURL = srv.URL
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	res, err := c.UploadRaw(context.Background(), []byte("%PDF-1.3"), "report.pdf", "job-1")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotPath != "/demo/raw/upload" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if fileBody != "%PDF-1.3" {
		t.Fatalf("unexpected file body %q", fileBody)
	}
	if res.SecureURL != "https://cdn.example/job-1.pdf" || res.ResourceType != "raw" {
		t.Fatalf("unexpected result %+v", res)
	}

	payload := "folder=student-reports&public_id=job-1&timestamp=1700000000secret"
	want := fmt.Sprintf("%x", sha1.Sum([]byte(payload)))
	if fields["signature"] != want {
		t.Fatalf("signature mismatch: got %s want %s", fields["signature"], want)
	}
	if fields["api_key"] != "key" {
		t.Fatalf("api_key not sent")
	}
}

func TestUploadRawError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Invalid Signature"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New("demo", "key", "bad", "")
	c.BaseURL = srv.URL
	if _, err := c.UploadRaw(context.Background(), []byte("x"), "r.pdf", ""); err == nil {
		t.Fatalf("expected error on 401")
	}
}
