package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
)

var errBackend = errors.New("backend unavailable")

// mockBackend hands out the configured mocks. A nil field is reported
// as errBackend.
type mockBackend struct {
	settings  *mockSettings
	documents *mockDocuments
	retriever *mockRetriever
	answerer  *mockAnswerer
	ingestor  *mockIngestor
	fetcher   *mockFetcher

	ingestDir string
	fetchDir  string
}

func (b *mockBackend) Settings() (driving.SettingsService, error) {
	if b.settings == nil {
		return nil, errBackend
	}
	return b.settings, nil
}

func (b *mockBackend) Documents(context.Context) (driving.DocumentService, error) {
	if b.documents == nil {
		return nil, errBackend
	}
	return b.documents, nil
}

func (b *mockBackend) Retriever(context.Context) (driving.Retriever, error) {
	if b.retriever == nil {
		return nil, errBackend
	}
	return b.retriever, nil
}

func (b *mockBackend) Answerer(context.Context) (driving.Answerer, error) {
	if b.answerer == nil {
		return nil, errBackend
	}
	return b.answerer, nil
}

func (b *mockBackend) Ingestor(_ context.Context, dir string) (driving.Ingestor, error) {
	b.ingestDir = dir
	if b.ingestor == nil {
		return nil, errBackend
	}
	return b.ingestor, nil
}

func (b *mockBackend) Fetcher(_ context.Context, dir string) (driving.PaperFetcher, error) {
	b.fetchDir = dir
	if b.fetcher == nil {
		return nil, errBackend
	}
	return b.fetcher, nil
}

type mockSettings struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error
	set         map[string]string
	apiKeys     map[domain.AIProvider]string
}

func newMockSettings() *mockSettings {
	return &mockSettings{
		settings: domain.DefaultAppSettings(),
		set:      map[string]string{},
		apiKeys:  map[domain.AIProvider]string{},
	}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Keys() []string { return []string{"chunking.size", "retrieval.k"} }

func (m *mockSettings) SetAPIKey(p domain.AIProvider, key string) error {
	m.apiKeys[p] = key
	return nil
}

func (m *mockSettings) Validate() error                 { return m.validateErr }
func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettings) ValidateEmbeddingConfig() error  { return nil }
func (m *mockSettings) ValidateLLMConfig() error        { return nil }

type mockDocuments struct {
	docs    []domain.Document
	details *driving.DocumentDetails
	err     error
	removed []string
}

func (m *mockDocuments) List(context.Context) ([]domain.Document, error) { return m.docs, m.err }

func (m *mockDocuments) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocuments) GetDetails(_ context.Context, id string) (*driving.DocumentDetails, error) {
	if m.details == nil || m.details.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.details, nil
}

func (m *mockDocuments) Remove(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, id)
	return nil
}

type mockRetriever struct {
	outcome *domain.RetrievalOutcome
	err     error
	query   string
	opts    domain.RetrieveOptions
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, opts domain.RetrieveOptions) (*domain.RetrievalOutcome, error) {
	m.query = query
	m.opts = opts
	return m.outcome, m.err
}

type mockAnswerer struct {
	answers   map[string]*domain.Answer
	err       error
	questions []string
	opts      domain.RetrieveOptions
}

func (m *mockAnswerer) Ask(_ context.Context, question string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	if a, ok := m.answers[question]; ok {
		return a, nil
	}
	return &domain.Answer{Text: domain.NoInformationResponse, Sources: []string{}}, nil
}

type mockIngestor struct {
	run      *domain.IngestRun
	err      error
	ingested int
	watched  bool
}

func (m *mockIngestor) IngestAll(context.Context) (*domain.IngestRun, error) {
	m.ingested++
	return m.run, m.err
}

func (m *mockIngestor) IngestChange(context.Context, domain.RawDocumentChange) error { return nil }

func (m *mockIngestor) Watch(context.Context) error {
	m.watched = true
	return nil
}

type mockFetcher struct {
	report *domain.FetchReport
	err    error
	query  domain.PaperQuery
}

func (m *mockFetcher) Fetch(_ context.Context, q domain.PaperQuery) (*domain.FetchReport, error) {
	m.query = q
	return m.report, m.err
}

// run executes the command tree with args and returns everything written.
func run(t *testing.T, backend Backend, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(backend)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
