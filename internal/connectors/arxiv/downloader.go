package arxiv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

var _ driven.PaperDownloader = (*Downloader)(nil)

// DefaultBucket is the public arXiv mirror on Google Cloud Storage.
const DefaultBucket = "arxiv-dataset"

// newStyleID matches identifiers such as 2501.01234v1.
var newStyleID = regexp.MustCompile(`^(\d{4})\.\d{4,5}(v\d+)?$`)

// Downloader streams PDFs from the arxiv-dataset bucket.
type Downloader struct {
	objects *storage.ObjectsService
	bucket  string
}

// NewDownloader creates an anonymous GCS client. Extra options are appended,
// so tests can point it at a fake endpoint.
func NewDownloader(ctx context.Context, bucket string, opts ...option.ClientOption) (*Downloader, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	opts = append([]option.ClientOption{option.WithoutAuthentication()}, opts...)
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Downloader{objects: svc.Objects, bucket: bucket}, nil
}

// ObjectPath returns the bucket path of a paper's PDF:
// arxiv/arxiv/pdf/{YYMM}/{id}.pdf.
func ObjectPath(id string) (string, error) {
	m := newStyleID.FindStringSubmatch(id)
	if m == nil {
		return "", fmt.Errorf("%w: unsupported arXiv id %q", domain.ErrInvalidInput, id)
	}
	return fmt.Sprintf("arxiv/arxiv/pdf/%s/%s.pdf", m[1], id), nil
}

// Download opens the PDF of paper. The caller closes the reader.
func (d *Downloader) Download(ctx context.Context, paper domain.Paper) (io.ReadCloser, error) {
	object, err := ObjectPath(paper.ID)
	if err != nil {
		return nil, err
	}
	resp, err := d.objects.Get(d.bucket, object).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download gs://%s/%s: %w", d.bucket, object, wrapError(err))
	}
	return resp.Body, nil
}

func wrapError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	default:
		return err
	}
}
