package posts

import "github.com/mmcdole/postdeck/internal/domain"

// recordSet is an ordered set of posts keyed by ID.
// Insertion order is preserved and no two entries share an ID.
type recordSet struct {
	items []domain.Post
	ids   map[int]struct{}
}

func newRecordSet() recordSet {
	return recordSet{ids: make(map[int]struct{})}
}

// appendNew appends the posts whose IDs are not present yet, in arrival order,
// and returns exactly the appended ones. Duplicates within the batch are dropped too.
func (s *recordSet) appendNew(batch []domain.Post) []domain.Post {
	if s.ids == nil {
		s.ids = make(map[int]struct{})
	}
	var fresh []domain.Post
	for _, p := range batch {
		if _, ok := s.ids[p.ID]; ok {
			continue
		}
		s.ids[p.ID] = struct{}{}
		s.items = append(s.items, p)
		fresh = append(fresh, p)
	}
	return fresh
}

func (s *recordSet) reset() {
	s.items = nil
	s.ids = make(map[int]struct{})
}

func (s *recordSet) len() int {
	return len(s.items)
}

func (s *recordSet) contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// snapshot returns a copy safe to hand to readers
func (s *recordSet) snapshot() []domain.Post {
	if len(s.items) == 0 {
		return nil
	}
	out := make([]domain.Post, len(s.items))
	copy(out, s.items)
	return out
}
