package service

import (
	"bintrack/internal/domain"
	"bintrack/internal/util"
)

// DedupSet tracks the content hash of every transaction this process knows
// about. It is seeded from the persisted rows before any fetch, then grown
// as new records are accepted, so a record re-ingested through a different
// API path or a repeated run is recognised and skipped. The set lives only
// for the run; it is recomputed from storage each time.
//
// Mutated only by the single goroutine driving ingestion.
type DedupSet struct {
	seen map[util.Digest]struct{}
}

// NewDedupSet returns an empty DedupSet.
func NewDedupSet() *DedupSet {
	return &DedupSet{seen: make(map[util.Digest]struct{})}
}

// Seed adds the hash of every given transaction to the set.
func (s *DedupSet) Seed(txs []domain.Transaction) {
	for i := range txs {
		s.Add(&txs[i])
	}
}

// Seen reports whether an identical transaction is already in the set.
func (s *DedupSet) Seen(tx *domain.Transaction) bool {
	_, ok := s.seen[hashTransaction(tx)]
	return ok
}

// Add records the transaction in the set.
func (s *DedupSet) Add(tx *domain.Transaction) {
	s.seen[hashTransaction(tx)] = struct{}{}
}

// Len returns the number of distinct transactions tracked.
func (s *DedupSet) Len() int {
	return len(s.seen)
}

func hashTransaction(tx *domain.Transaction) util.Digest {
	return util.HashValues(tx.FieldValues()...)
}
