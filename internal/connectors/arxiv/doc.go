// Package arxiv fetches paper metadata from the arXiv API and PDFs from the
// public arxiv-dataset bucket on Google Cloud Storage.
//
// The API asks clients to wait three seconds between requests; Client
// enforces that with a RateLimiter.
package arxiv
