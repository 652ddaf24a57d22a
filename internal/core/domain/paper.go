package domain

import "time"

// Paper is arXiv metadata for one fetched PDF.
type Paper struct {
	// ID is the versioned arXiv identifier, e.g. "2501.01234v1".
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Summary   string    `yaml:"summary"`
	Authors   []string  `yaml:"authors"`
	Category  string    `yaml:"category"`
	Published time.Time `yaml:"published"`
	Updated   time.Time `yaml:"updated"`
	PDFURL    string    `yaml:"pdf_url"`

	// File is the local PDF filename, set after download.
	File string `yaml:"file,omitempty"`
}

// PaperQuery selects papers from the catalogue.
type PaperQuery struct {
	Query     string
	StartDate time.Time
	EndDate   time.Time
	PageSize  int
	MaxPapers int
}

// FetchReport summarises a fetch run.
type FetchReport struct {
	Found      int
	Downloaded int
	Skipped    int
	Failed     int
}
