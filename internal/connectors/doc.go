// Package connectors holds the document sources of the pipeline.
//
// The filesystem connector lists and watches a directory of PDFs; the arxiv
// package fills that directory from the arXiv API and its public bucket.
package connectors
