package model

// ScopeKind identifies the dimension an analytics snapshot is computed over.
type ScopeKind string

const (
	ScopeAlias ScopeKind = "alias"
	ScopeTopic ScopeKind = "topic"
	ScopeOwner ScopeKind = "owner"
)

// Cache key prefixes per scope kind.
const (
	aliasScopePrefix = "analytics:"
	topicScopePrefix = "topicAnalytics:"
	ownerScopePrefix = "overallAnalytics:"
)

// Scope is a single analytics target such as one alias or one topic.
type Scope struct {
	Kind ScopeKind
	Key  string
}

// AliasScope returns the scope for one alias.
func AliasScope(alias string) Scope { return Scope{Kind: ScopeAlias, Key: alias} }

// TopicScope returns the scope for one topic.
func TopicScope(topic string) Scope { return Scope{Kind: ScopeTopic, Key: topic} }

// OwnerScope returns the scope for one owner.
func OwnerScope(ownerID string) Scope { return Scope{Kind: ScopeOwner, Key: ownerID} }

// CacheKey returns the result-cache key for the scope.
func (s Scope) CacheKey() string {
	switch s.Kind {
	case ScopeTopic:
		return topicScopePrefix + s.Key
	case ScopeOwner:
		return ownerScopePrefix + s.Key
	default:
		return aliasScopePrefix + s.Key
	}
}
