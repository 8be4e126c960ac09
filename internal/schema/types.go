// Package schema defines the node labels, relationship types, and entity
// records of the GEO knowledge graph.
package schema

// NodeType represents the label of a node in the knowledge graph.
type NodeType string

const (
	NodeTypeKeyword      NodeType = "Keyword"
	NodeTypeTopicCluster NodeType = "TopicCluster"
	NodeTypePersona      NodeType = "Persona"
	NodeTypeScenario     NodeType = "Scenario"
	NodeTypePainPoint    NodeType = "PainPoint"
	NodeTypeFeature      NodeType = "Feature"
	NodeTypeProduct      NodeType = "Product"
	NodeTypeClaim        NodeType = "Claim"
	NodeTypeEvidence     NodeType = "Evidence"
	NodeTypeGap          NodeType = "Gap"
	NodeTypePrompt       NodeType = "Prompt"
	NodeTypeBrief        NodeType = "Brief"
	NodeTypeAsset        NodeType = "Asset"
)

// String returns the string representation of NodeType.
func (nt NodeType) String() string {
	return string(nt)
}

// IsValid checks if the NodeType is a valid value.
func (nt NodeType) IsValid() bool {
	switch nt {
	case NodeTypeKeyword, NodeTypeTopicCluster, NodeTypePersona,
		NodeTypeScenario, NodeTypePainPoint, NodeTypeFeature,
		NodeTypeProduct, NodeTypeClaim, NodeTypeEvidence,
		NodeTypeGap, NodeTypePrompt, NodeTypeBrief, NodeTypeAsset:
		return true
	default:
		return false
	}
}

// AllNodeTypes lists every node label in the graph, in dependency order.
// Used by monitoring to build per-label counts.
func AllNodeTypes() []NodeType {
	return []NodeType{
		NodeTypeKeyword, NodeTypeTopicCluster, NodeTypePersona,
		NodeTypeScenario, NodeTypePainPoint, NodeTypeFeature,
		NodeTypeProduct, NodeTypeClaim, NodeTypeEvidence,
		NodeTypeGap, NodeTypePrompt, NodeTypeBrief, NodeTypeAsset,
	}
}

// RelationType represents the type of a directed relationship between nodes.
type RelationType string

const (
	RelationCoOccursWith  RelationType = "CO_OCCURS_WITH" // Keyword -> Keyword, weight property
	RelationBelongsTo     RelationType = "BELONGS_TO"     // Keyword -> TopicCluster
	RelationBridges       RelationType = "BRIDGES"        // TopicCluster -> TopicCluster
	RelationOccursIn      RelationType = "OCCURS_IN"      // Persona -> Scenario
	RelationSuffers       RelationType = "SUFFERS"        // Scenario -> PainPoint
	RelationRelievedBy    RelationType = "RELIEVED_BY"    // PainPoint -> Feature
	RelationImplementedIn RelationType = "IMPLEMENTED_IN" // Feature -> Product
	RelationAbout         RelationType = "ABOUT"          // Claim -> Feature/Product/PainPoint
	RelationSupportedBy   RelationType = "SUPPORTED_BY"   // Claim -> Evidence
	RelationSuggests      RelationType = "SUGGESTS"       // Gap -> Prompt
	RelationGeneratedFrom RelationType = "GENERATED_FROM" // Brief -> Prompt
	RelationCovers        RelationType = "COVERS"         // Brief -> TopicCluster
	RelationDerivesFrom   RelationType = "DERIVES_FROM"   // Asset -> Brief
	RelationMentions      RelationType = "MENTIONS"       // Asset -> Product/PainPoint
	RelationTargets       RelationType = "TARGETS"        // Prompt -> Persona
	RelationAddresses     RelationType = "ADDRESSES"      // Prompt -> PainPoint
)

// String returns the string representation of RelationType.
func (rt RelationType) String() string {
	return string(rt)
}

// IsValid checks if the RelationType is a valid value.
func (rt RelationType) IsValid() bool {
	switch rt {
	case RelationCoOccursWith, RelationBelongsTo, RelationBridges,
		RelationOccursIn, RelationSuffers, RelationRelievedBy,
		RelationImplementedIn, RelationAbout, RelationSupportedBy,
		RelationSuggests, RelationGeneratedFrom, RelationCovers,
		RelationDerivesFrom, RelationMentions, RelationTargets,
		RelationAddresses:
		return true
	default:
		return false
	}
}

// VerificationStatus is the lifecycle status of a Claim.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
	VerificationDisputed   VerificationStatus = "disputed"
)

// IsValid checks if the VerificationStatus is a valid value.
func (vs VerificationStatus) IsValid() bool {
	switch vs {
	case VerificationUnverified, VerificationVerified, VerificationDisputed:
		return true
	default:
		return false
	}
}

// String returns the string representation of VerificationStatus.
func (vs VerificationStatus) String() string {
	return string(vs)
}
