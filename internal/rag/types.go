// Package rag answers natural-language questions from the knowledge graph:
// classify the question, retrieve a bounded subgraph, compose a grounded
// answer with citations and a confidence estimate.
package rag

// QuestionType is the closed set of question categories the pipeline
// dispatches on.
type QuestionType string

const (
	QuestionFeature    QuestionType = "feature"
	QuestionPainPoint  QuestionType = "pain_point"
	QuestionProduct    QuestionType = "product"
	QuestionEvidence   QuestionType = "evidence"
	QuestionComparison QuestionType = "comparison"
	QuestionGeneral    QuestionType = "general"
)

// String returns the string representation of QuestionType.
func (qt QuestionType) String() string {
	return string(qt)
}

// Citation is a source reference attached to an answer.
type Citation struct {
	Source           string  `json:"source"`
	URL              string  `json:"url,omitempty"`
	CredibilityScore float64 `json:"credibility_score"`
	Quote            string  `json:"quote,omitempty"`
}

// Answer is the pipeline output: grounded answer text with its sources, a
// confidence estimate in [0,1], and the node labels traversed to build it.
type Answer struct {
	Question   string       `json:"question"`
	Text       string       `json:"text"`
	Citations  []Citation   `json:"citations"`
	Confidence float64      `json:"confidence"`
	GraphPath  []string     `json:"graph_path"`
	Type       QuestionType `json:"type"`
}

// Subgraph is the bounded retrieval result for one question: the matched
// primary node(s) and related nodes grouped by role. An empty Primary means
// the graph holds no knowledge for the question, which is a normal outcome.
type Subgraph struct {
	QuestionType QuestionType

	// Primary holds the property maps of the matched entry nodes.
	Primary []map[string]any

	// Groups holds related values keyed by role ("relieves", "solutions",
	// "evidence", ...). Values are strings or property maps depending on
	// the role.
	Groups map[string][]any

	// Paths lists the node labels the template traversed, in order.
	Paths []string

	// MaxGroups is the number of related-node groups the template can
	// populate, used for subgraph density in confidence scoring.
	MaxGroups int
}

// Empty reports whether the retrieval matched nothing.
func (sg Subgraph) Empty() bool {
	return len(sg.Primary) == 0
}

// groupValues returns the group for a role, nil when absent.
func (sg Subgraph) groupValues(role string) []any {
	if sg.Groups == nil {
		return nil
	}
	return sg.Groups[role]
}

// populatedGroups counts groups holding at least one value.
func (sg Subgraph) populatedGroups() int {
	n := 0
	for _, values := range sg.Groups {
		if len(values) > 0 {
			n++
		}
	}
	return n
}
