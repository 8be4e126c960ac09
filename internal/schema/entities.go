package schema

import (
	"fmt"
	"time"

	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

// scoreInRange reports whether a normalized score is inside [0,1].
func scoreInRange(v float64) bool {
	return v >= 0.0 && v <= 1.0
}

// Keyword is a leaf node of the co-occurrence network, produced by the
// upstream text-network analysis provider.
type Keyword struct {
	Name        string  `json:"name"`
	Frequency   int     `json:"frequency"`
	Betweenness float64 `json:"betweenness"`
	Degree      int     `json:"degree"`
	Community   string  `json:"community"`
}

// Validate checks the Keyword fields.
func (k Keyword) Validate() error {
	if k.Name == "" {
		return types.NewError(types.ENTITY_INVALID, "keyword name cannot be empty")
	}
	if k.Frequency < 0 {
		return types.NewError(types.ENTITY_INVALID, "keyword frequency cannot be negative")
	}
	return nil
}

// TopicCluster groups Keywords detected as a community in the co-occurrence
// network.
type TopicCluster struct {
	Name       string  `json:"name"`
	Size       int     `json:"size"`
	Modularity float64 `json:"modularity"`
}

// Validate checks the TopicCluster fields.
func (tc TopicCluster) Validate() error {
	if tc.Name == "" {
		return types.NewError(types.ENTITY_INVALID, "topic cluster name cannot be empty")
	}
	if tc.Size < 0 {
		return types.NewError(types.ENTITY_INVALID, "topic cluster size cannot be negative")
	}
	return nil
}

// Persona is a demand-side actor.
type Persona struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PainPoints  []string `json:"pain_points,omitempty"`
	Goals       []string `json:"goals,omitempty"`
}

// Scenario is a context a Persona occurs in.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   int    `json:"frequency"`
}

// PainPoint is a problem experienced in a Scenario. Severity and evidence
// count drive ranking throughout the system.
type PainPoint struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Severity      int    `json:"severity"`
	EvidenceCount int    `json:"evidence_count"`
}

// Validate checks the PainPoint fields.
func (pp PainPoint) Validate() error {
	if pp.Name == "" {
		return types.NewError(types.ENTITY_INVALID, "pain point name cannot be empty")
	}
	if pp.Severity < 0 || pp.Severity > 10 {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("pain point severity must be in [0,10], got %d", pp.Severity))
	}
	return nil
}

// Feature is a supply-side capability.
type Feature struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Product implements Features.
type Product struct {
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	PriceTier string  `json:"price_tier"`
	Rating    float64 `json:"rating"`
}

// Claim is a factual assertion about a Feature, Product, or PainPoint.
type Claim struct {
	ID                 types.ID           `json:"id"`
	Text               string             `json:"text"`
	Confidence         float64            `json:"confidence"`
	VerificationStatus VerificationStatus `json:"verification_status"`
}

// Validate checks the Claim fields.
func (c Claim) Validate() error {
	if c.Text == "" {
		return types.NewError(types.ENTITY_INVALID, "claim text cannot be empty")
	}
	if !scoreInRange(c.Confidence) {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("claim confidence must be in [0,1], got %f", c.Confidence))
	}
	if !c.VerificationStatus.IsValid() {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("invalid verification status: %s", c.VerificationStatus))
	}
	return nil
}

// Evidence supports a Claim with a cited source.
type Evidence struct {
	ID               types.ID  `json:"id"`
	Source           string    `json:"source"`
	URL              string    `json:"url"`
	Date             time.Time `json:"date"`
	Quote            string    `json:"quote"`
	CredibilityScore float64   `json:"credibility_score"`
}

// Validate checks the Evidence fields.
func (e Evidence) Validate() error {
	if e.Source == "" {
		return types.NewError(types.ENTITY_INVALID, "evidence source cannot be empty")
	}
	if !scoreInRange(e.CredibilityScore) {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("evidence credibility must be in [0,1], got %f", e.CredibilityScore))
	}
	return nil
}

// Gap is a structure hole between two topic clusters: a weakly-connected
// cluster pair representing an untapped content opportunity. Derived, never
// a primary entity.
type Gap struct {
	TopicA           string    `json:"topic_a"`
	TopicB           string    `json:"topic_b"`
	OpportunityScore float64   `json:"opportunity_score"`
	KeywordsA        []string  `json:"keywords_a,omitempty"`
	KeywordsB        []string  `json:"keywords_b,omitempty"`
	DiscoveredAt     time.Time `json:"discovered_at"`
}

// NewGap constructs a validated Gap.
func NewGap(topicA, topicB string, score float64) (Gap, error) {
	g := Gap{
		TopicA:           topicA,
		TopicB:           topicB,
		OpportunityScore: score,
		DiscoveredAt:     time.Now(),
	}
	if err := g.Validate(); err != nil {
		return Gap{}, err
	}
	return g, nil
}

// Validate checks the Gap fields. A gap must reference two distinct clusters
// and carry a normalized score.
func (g Gap) Validate() error {
	if g.TopicA == "" || g.TopicB == "" {
		return types.NewError(types.ENTITY_INVALID, "gap topics cannot be empty")
	}
	if g.TopicA == g.TopicB {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("gap must reference two distinct clusters, got %q twice", g.TopicA))
	}
	if !scoreInRange(g.OpportunityScore) {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("gap opportunity score must be in [0,1], got %f", g.OpportunityScore))
	}
	return nil
}

// Prompt is a content-ideation seed generated from a Gap.
type Prompt struct {
	Text     string  `json:"text"`
	Type     string  `json:"type"`
	Priority int     `json:"priority"`
	GapScore float64 `json:"gap_score"`
}

// Validate checks the Prompt fields.
func (p Prompt) Validate() error {
	if p.Text == "" {
		return types.NewError(types.ENTITY_INVALID, "prompt text cannot be empty")
	}
	if !scoreInRange(p.GapScore) {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("prompt gap score must be in [0,1], got %f", p.GapScore))
	}
	return nil
}

// Brief is a content plan generated from a Prompt.
type Brief struct {
	Title          string `json:"title"`
	Outline        string `json:"outline"`
	TargetPersona  string `json:"target_persona"`
	TargetScenario string `json:"target_scenario"`
}

// Asset is a final content artifact derived from a Brief.
type Asset struct {
	ID                 string     `json:"id"`
	Type               string     `json:"type"`
	Channel            string     `json:"channel"`
	CitationReadyScore float64    `json:"citation_ready_score"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
}

// Validate checks the Asset fields.
func (a Asset) Validate() error {
	if a.ID == "" {
		return types.NewError(types.ENTITY_INVALID, "asset id cannot be empty")
	}
	if !scoreInRange(a.CitationReadyScore) {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("asset citation-ready score must be in [0,1], got %f", a.CitationReadyScore))
	}
	return nil
}
