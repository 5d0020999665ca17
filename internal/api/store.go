package api

import (
	"sync"

	"github.com/zamaudio/ptformat/internal/render"
)

// DefaultStoreSize bounds the number of reports kept for retrieval.
const DefaultStoreSize = 64

// ReportStore keeps the most recent reports by ID. The oldest report is
// evicted once the store is full.
type ReportStore struct {
	mu      sync.Mutex
	limit   int
	order   []string
	reports map[string]render.Report
}

func NewReportStore(limit int) *ReportStore {
	if limit <= 0 {
		limit = DefaultStoreSize
	}
	return &ReportStore{
		limit:   limit,
		reports: make(map[string]render.Report, limit),
	}
}

func (s *ReportStore) Put(r render.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = r
	for len(s.order) > s.limit {
		delete(s.reports, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *ReportStore) Get(id string) (render.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	return r, ok
}

func (s *ReportStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; !ok {
		return false
	}
	delete(s.reports, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *ReportStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}
