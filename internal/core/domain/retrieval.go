package domain

// NoInformationResponse is returned to the user instead of calling the
// generator when retrieval finds nothing relevant.
const NoInformationResponse = "Sorry, I don't have any information about that topic."

// RetrievalOutcome is the result of a threshold-filtered similarity search.
// An outcome with no chunks means "no relevant context" and is not an error.
type RetrievalOutcome struct {
	// Chunks are the kept chunk texts, nearest first.
	Chunks []string

	// RelatedSources holds one reference per distinct document, first-seen order.
	RelatedSources []string

	// Hits are the kept hits with their distances.
	Hits []QueryHit
}

// IsEmpty reports whether no chunk passed the distance threshold.
func (o *RetrievalOutcome) IsEmpty() bool {
	return o == nil || len(o.Chunks) == 0
}

// RetrieveOptions tunes a single retrieval.
type RetrieveOptions struct {
	// MaxDistance is inclusive. Nil means the configured default; zero
	// keeps exact matches only.
	MaxDistance *float64

	// K is the number of neighbours to search. Zero means the configured default.
	K int
}

// Distance returns a MaxDistance value for RetrieveOptions.
func Distance(d float64) *float64 {
	return &d
}

// Answer is the result of asking a question.
type Answer struct {
	// Text is the generated answer or NoInformationResponse.
	Text string

	// Sources are the related sources of the retrieval.
	Sources []string

	// Grounded is false when the answer is the no-information short-circuit.
	Grounded bool
}
