package completion

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestGeminiImageBytes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/shoe.png":
			_, _ = w.Write(pngHeader)
		case "/empty":
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	c := &geminiClient{httpClient: srv.Client()}

	tests := []struct {
		name     string
		ref      ImageRef
		wantData []byte
		wantMIME string
		wantErr  bool
	}{
		{name: "inline base64", ref: NewImageRef("aGk="), wantData: []byte("hi"), wantMIME: InlineMediaType},
		{name: "invalid base64", ref: NewImageRef("%%%"), wantErr: true},
		{name: "url", ref: NewImageRef(srv.URL + "/shoe.png"), wantData: pngHeader, wantMIME: "image/png"},
		{name: "url not found", ref: NewImageRef(srv.URL + "/missing"), wantErr: true},
		{name: "url empty body", ref: NewImageRef(srv.URL + "/empty"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, mime, err := c.imageBytes(context.Background(), tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("imageBytes: %v", err)
			}
			if !bytes.Equal(data, tt.wantData) || mime != tt.wantMIME {
				t.Errorf("got %q %q, want %q %q", data, mime, tt.wantData, tt.wantMIME)
			}
		})
	}
}
