package domain

import "fmt"

// DefaultQueryLimit is the number of retrieved texts requested when the
// caller does not specify a limit.
const DefaultQueryLimit = 3

// RetrievedText is a passage the backend used to ground an answer.
type RetrievedText struct {
	// Text is the passage content.
	Text string `json:"text" yaml:"text"`

	// Distance is the relevance score, higher meaning more relevant.
	Distance float64 `json:"distance" yaml:"distance"`

	// Source names the document the passage came from, if known.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Relevance renders Distance as a percentage.
func (r RetrievedText) Relevance() string {
	return fmt.Sprintf("%.1f%%", r.Distance*100)
}

// QueryMetrics holds backend timings for one query, in seconds.
type QueryMetrics struct {
	RetrievalTime  float64 `json:"retrieval_time" yaml:"retrieval_time"`
	GenerationTime float64 `json:"generation_time" yaml:"generation_time"`
	TotalTime      float64 `json:"total_time" yaml:"total_time"`
}

// Answer is the payload of a successful query.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer" yaml:"answer"`

	// Metrics are the backend timings.
	Metrics QueryMetrics `json:"metrics" yaml:"metrics"`

	// RetrievedTexts are the grounding passages, most relevant first.
	RetrievedTexts []RetrievedText `json:"retrieved_texts" yaml:"retrieved_texts"`
}
