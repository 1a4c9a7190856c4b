package nara_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"archivist/internal/services"
	"archivist/internal/services/nara"
)

func TestExtractNAID(t *testing.T) {
	cases := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://catalog.archives.gov/id/178788901", "178788901", true},
		{"https://catalog.archives.gov/id/123?page=4", "123", true},
		{"catalog.archives.gov/id/9", "9", true},
		{"https://catalog.archives.gov/search?q=maps", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := nara.ExtractNAID(tc.url)
		if tc.ok {
			if err != nil {
				t.Fatalf("ExtractNAID(%q) failed: %v", tc.url, err)
			}
			if got != tc.want {
				t.Fatalf("ExtractNAID(%q)=%q, want %q", tc.url, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("ExtractNAID(%q) should fail", tc.url)
		}
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("ExtractNAID(%q) error kind: %v", tc.url, err)
		}
	}
}

const searchBody = `{
  "body": {
    "hits": {
      "hits": [
        {
          "_source": {
            "record": {
              "digitalObjects": [
                {"objectUrl": "https://s3.example/objects/1.jpg", "objectFilename": "scan-1.jpg"},
                {"objectUrl": "https://s3.example/objects/2.jpg", "objectFilename": "scan-2.jpg"}
              ]
            }
          }
        }
      ]
    }
  }
}`

func TestLookupParsesDigitalObjects(t *testing.T) {
	var gotPath, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := nara.NewClientWithDoer(server.URL, "archivist-test", server.Client())
	objects, err := client.Lookup(context.Background(), "178788901")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if gotPath != "/proxy/records/search?naId=178788901" {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
	if gotAgent != "archivist-test" {
		t.Fatalf("user agent not set: %q", gotAgent)
	}
	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objects))
	}
	if objects[0].URL != "https://s3.example/objects/1.jpg" || objects[0].Filename != "scan-1.jpg" {
		t.Fatalf("unexpected first object: %#v", objects[0])
	}
}

func TestLookupNoHitsIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"body":{"hits":{"hits":[]}}}`))
	}))
	defer server.Close()

	client := nara.NewClientWithDoer(server.URL, "archivist-test", server.Client())
	_, err := client.Lookup(context.Background(), "404404")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLookupServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := nara.NewClientWithDoer(server.URL, "archivist-test", server.Client())
	_, err := client.Lookup(context.Background(), "1")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestDownloadWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	client := nara.NewClientWithDoer(server.URL, "archivist-test", server.Client())
	path := filepath.Join(t.TempDir(), "0001.jpg")
	if err := client.Download(context.Background(), server.URL+"/objects/1.jpg", path); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestDownloadNonOKLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := nara.NewClientWithDoer(server.URL, "archivist-test", server.Client())
	path := filepath.Join(t.TempDir(), "0001.jpg")
	if err := client.Download(context.Background(), server.URL+"/objects/1.jpg", path); err == nil {
		t.Fatal("expected error on 404")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be created: %v", err)
	}
}
