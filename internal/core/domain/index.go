package domain

// DistanceMetric selects the distance function of a vector index.
type DistanceMetric string

// Supported metrics.
const (
	// MetricL2 is squared Euclidean distance.
	MetricL2 DistanceMetric = "l2"

	// MetricCosine is 1 - cosine similarity.
	MetricCosine DistanceMetric = "cosine"
)

// IsValid returns true if the metric is recognised.
func (m DistanceMetric) IsValid() bool {
	return m == MetricL2 || m == MetricCosine
}

// String returns the string representation.
func (m DistanceMetric) String() string {
	return string(m)
}

// IndexEntry is one record of the vector index.
type IndexEntry struct {
	ID         string
	Vector     []float32
	Text       string
	DocumentID string
	Sequence   int
}

// EntryFromChunk builds an index entry from an embedded chunk.
func EntryFromChunk(c Chunk) IndexEntry {
	return IndexEntry{
		ID:         c.ID,
		Vector:     c.Embedding,
		Text:       c.Text,
		DocumentID: c.DocumentID,
		Sequence:   c.Sequence,
	}
}

// QueryHit is a search result. Hits are returned in ascending Distance.
type QueryHit struct {
	ID         string
	Text       string
	DocumentID string
	Sequence   int
	Distance   float64
}
