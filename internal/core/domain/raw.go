package domain

// RawDocument is file content as delivered by a source connector,
// before text extraction.
type RawDocument struct {
	// ID is the stable document ID the connector derived from the path.
	ID string

	// URI is the original location (absolute file path).
	URI string

	// MIMEType is the content type (e.g. "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains connector-specific key-value pairs.
	Metadata map[string]any
}

// ChangeType represents the type of document change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified document.
	ChangeUpdated

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// RawDocumentChange is emitted by watching connectors.
type RawDocumentChange struct {
	Type     ChangeType
	Document RawDocument
}
