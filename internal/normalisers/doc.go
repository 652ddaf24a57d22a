// Package normalisers turns raw file bytes into document text. Each
// normaliser handles a set of MIME types; the Registry picks the one with
// the highest priority.
package normalisers
