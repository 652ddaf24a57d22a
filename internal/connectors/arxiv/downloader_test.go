package arxiv

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

func newTestDownloader(t *testing.T, handler http.HandlerFunc) *Downloader {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	d, err := NewDownloader(context.Background(), "",
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return d
}

func TestObjectPath(t *testing.T) {
	tests := []struct {
		id      string
		want    string
		wantErr bool
	}{
		{id: "2501.01234v1", want: "arxiv/arxiv/pdf/2501/2501.01234v1.pdf"},
		{id: "2312.12345", want: "arxiv/arxiv/pdf/2312/2312.12345.pdf"},
		{id: "0704.0001v2", want: "arxiv/arxiv/pdf/0704/0704.0001v2.pdf"},
		{id: "hep-th/9901001v1", wantErr: true},
		{id: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ObjectPath(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDownloader_Download(t *testing.T) {
	d := newTestDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/b/arxiv-dataset/o/")
		assert.Contains(t, r.URL.Path, "2501.01234v1.pdf")
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		_, _ = w.Write([]byte("%PDF-1.7 test"))
	})

	rc, err := d.Download(context.Background(), domain.Paper{ID: "2501.01234v1"})
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 test", string(data))
}

func TestDownloader_NotFound(t *testing.T) {
	d := newTestDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"No such object"}}`))
	})

	_, err := d.Download(context.Background(), domain.Paper{ID: "2501.01234v1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloader_InvalidID(t *testing.T) {
	d := newTestDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := d.Download(context.Background(), domain.Paper{ID: "math/0211159"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
