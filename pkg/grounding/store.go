package grounding

import "sync"

// GroundKernelStore is a set of ground rules with merge-on-duplicate
// semantics: rules are identified by the unordered multiset of their
// signed ground atoms, never removed by the grounder, and bucketed by that
// multiset's hash for O(1) merge-or-insert.
type GroundKernelStore struct {
	mu      sync.Mutex
	buckets map[uint64][]*GroundRule
	order   []*GroundRule // every distinct rule, in first-insertion order

	// NotifyChanged, when set, is called whenever MergeOrInsert increments
	// an existing rule's multiplicity rather than inserting a new one
	// (the merge hook). It is nil by default; callers that don't need
	// the hook (the common case) pay nothing for it.
	NotifyChanged func(existing *GroundRule)
}

// NewGroundKernelStore constructs an empty store.
func NewGroundKernelStore() *GroundKernelStore {
	return &GroundKernelStore{buckets: make(map[uint64][]*GroundRule)}
}

// Get returns the existing ground rule equal to candidate, if any.
func (s *GroundKernelStore) Get(candidate *GroundRule) *GroundRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(candidate)
}

func (s *GroundKernelStore) get(candidate *GroundRule) *GroundRule {
	key := candidate.identityKey()
	for _, existing := range s.buckets[key] {
		if equalGroundRule(existing, candidate) {
			return existing
		}
	}
	return nil
}

// Add inserts candidate unconditionally; callers must have already checked
// Get returns nil, or use MergeOrInsert for the common case.
func (s *GroundKernelStore) Add(candidate *GroundRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := candidate.identityKey()
	s.buckets[key] = append(s.buckets[key], candidate)
	s.order = append(s.order, candidate)
}

// MergeOrInsert merges a candidate into the set: if an equal ground rule
// already exists, its multiplicity is incremented and NotifyChanged fires;
// otherwise candidate is inserted as a new ground rule. Returns the
// resulting stored rule.
func (s *GroundKernelStore) MergeOrInsert(candidate *GroundRule) *GroundRule {
	s.mu.Lock()
	key := candidate.identityKey()
	for _, existing := range s.buckets[key] {
		if equalGroundRule(existing, candidate) {
			existing.IncreaseGroundings(candidate.Multiplicity)
			hook := s.NotifyChanged
			s.mu.Unlock()
			if hook != nil {
				hook(existing)
			}
			return existing
		}
	}
	s.buckets[key] = append(s.buckets[key], candidate)
	s.order = append(s.order, candidate)
	s.mu.Unlock()
	return candidate
}

// Len returns the number of distinct ground rules currently stored.
func (s *GroundKernelStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// All returns a snapshot slice of every stored ground rule, in the order
// each rule was first inserted. Grounding inserts in store-row order and
// merges never reorder, so when the store's result order is deterministic,
// so is this.
func (s *GroundKernelStore) All() []*GroundRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*GroundRule, len(s.order))
	copy(out, s.order)
	return out
}
