// Package to describe the active corpus partition and its key registry
package corpus

// CorpusDescriptor decides which sequence keys belong to the active
// partition of a corpus and owns the string registry shared by every
// stream over that corpus.
type CorpusDescriptor struct {
	registry *StringRegistry
	filter   func(string) bool
}

// NewCorpusDescriptor returns a descriptor that includes every key.
func NewCorpusDescriptor() *CorpusDescriptor {
	return &CorpusDescriptor{registry: NewStringRegistry()}
}

// NewCorpusDescriptorWithFilter restricts the corpus to keys accepted by f.
func NewCorpusDescriptorWithFilter(f func(string) bool) *CorpusDescriptor {
	return &CorpusDescriptor{registry: NewStringRegistry(), filter: f}
}

// IsIncluded reports whether key belongs to the active partition.
// Exclusion is an expected outcome, not an error.
func (c *CorpusDescriptor) IsIncluded(key string) bool {
	if c.filter == nil {
		return true
	}
	return c.filter(key)
}

func (c *CorpusDescriptor) GetStringRegistry() *StringRegistry {
	return c.registry
}
