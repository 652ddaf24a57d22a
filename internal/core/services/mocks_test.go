package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

var errBoom = errors.New("boom")

// fakeEmbedder returns fixed vectors for known texts and a 2-d vector
// derived from the text otherwise, zero-padded to pad dimensions.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	failOn  string
	pad     int
	batches [][]string
}

func (e *fakeEmbedder) vector(text string) []float32 {
	if v, ok := e.vectors[text]; ok {
		return v
	}
	v := []float32{float32(len(text)), float32(strings.Count(text, "a"))}
	for len(v) < e.pad {
		v = append(v, 0)
	}
	return v
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.failOn != "" && strings.Contains(text, e.failOn) {
		return nil, errBoom
	}
	return e.vector(text), nil
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.batches = append(e.batches, texts)
	e.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if e.failOn != "" && strings.Contains(text, e.failOn) {
			return nil, errors.Join(domain.ErrEmbeddingFailure, errBoom)
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int            { return 2 }
func (e *fakeEmbedder) ModelName() string          { return "fake" }
func (e *fakeEmbedder) Ping(context.Context) error { return nil }
func (e *fakeEmbedder) Close() error               { return nil }

// fakeIndex returns canned hits.
type fakeIndex struct {
	hits    []domain.QueryHit
	err     error
	gotK    int
	deleted []string
}

func (i *fakeIndex) Upsert(context.Context, []domain.IndexEntry) error { return nil }

func (i *fakeIndex) Search(_ context.Context, _ []float32, k int) ([]domain.QueryHit, error) {
	i.gotK = k
	if i.err != nil {
		return nil, i.err
	}
	if len(i.hits) > k {
		return i.hits[:k], nil
	}
	return i.hits, nil
}

func (i *fakeIndex) ReplaceDocument(_ context.Context, id string, _ []domain.IndexEntry) error {
	i.deleted = append(i.deleted, id)
	return i.err
}

func (i *fakeIndex) DeleteDocument(_ context.Context, id string) error {
	i.deleted = append(i.deleted, id)
	return i.err
}

func (i *fakeIndex) Count(context.Context) (int, error) { return len(i.hits), nil }
func (i *fakeIndex) Metric() domain.DistanceMetric      { return domain.MetricL2 }
func (i *fakeIndex) Close() error                       { return nil }

// fakeSource lists fixed documents and replays changes on Watch.
type fakeSource struct {
	docs     []domain.RawDocument
	listErrs []error
	changes  []domain.RawDocumentChange
	invalid  error
}

func (s *fakeSource) Type() string                   { return "fake" }
func (s *fakeSource) Root() string                   { return "/papers" }
func (s *fakeSource) Validate(context.Context) error { return s.invalid }
func (s *fakeSource) Close() error                   { return nil }

func (s *fakeSource) List(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, len(s.listErrs)+1)
	go func() {
		defer close(docs)
		defer close(errs)
		for _, err := range s.listErrs {
			errs <- err
		}
		for _, d := range s.docs {
			select {
			case docs <- d:
			case <-ctx.Done():
				return
			}
		}
	}()
	return docs, errs
}

func (s *fakeSource) Watch(context.Context) (<-chan domain.RawDocumentChange, error) {
	ch := make(chan domain.RawDocumentChange, len(s.changes))
	for _, c := range s.changes {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func textDoc(id, content string) domain.RawDocument {
	return domain.RawDocument{
		ID:       id,
		URI:      "/papers/" + id + ".txt",
		MIMEType: "text/plain",
		Content:  []byte(content),
		Metadata: map[string]any{"filename": id + ".txt"},
	}
}

// stubPrompts serves one template.
type stubPrompts struct {
	template string
	err      error
}

func (p stubPrompts) Load(name string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if name != driven.PromptAnswer {
		return "", domain.ErrNotFound
	}
	return p.template, nil
}

func (p stubPrompts) Reload() {}

// fakeLLM records prompts.
type fakeLLM struct {
	answer  string
	err     error
	prompts []string
	opts    driven.GenerateOptions
}

func (l *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	l.prompts = append(l.prompts, prompt)
	l.opts = opts
	return l.answer, l.err
}

func (l *fakeLLM) ModelName() string          { return "fake-llm" }
func (l *fakeLLM) Ping(context.Context) error { return nil }
func (l *fakeLLM) Close() error               { return nil }

// stubResolver cites documents as URLs.
type stubResolver struct{}

func (stubResolver) Resolve(id string) string { return "https://example.org/" + id }

// fakeCatalogue returns fixed papers.
type fakeCatalogue struct {
	papers []domain.Paper
	err    error
	query  domain.PaperQuery
}

func (c *fakeCatalogue) Search(_ context.Context, q domain.PaperQuery) ([]domain.Paper, error) {
	c.query = q
	return c.papers, c.err
}

// fakeDownloader serves PDF bytes by paper ID.
type fakeDownloader struct {
	files map[string]string
	calls []string
}

func (d *fakeDownloader) Download(_ context.Context, p domain.Paper) (io.ReadCloser, error) {
	d.calls = append(d.calls, p.ID)
	content, ok := d.files[p.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// fakeManifest keeps papers in memory.
type fakeManifest struct {
	papers  []domain.Paper
	loadErr error
	saves   int
}

func (m *fakeManifest) Load() ([]domain.Paper, error) { return m.papers, m.loadErr }

func (m *fakeManifest) Save(papers []domain.Paper) error {
	m.saves++
	m.papers = papers
	return nil
}
