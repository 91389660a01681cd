// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"libris/internal/borrowers"
	"libris/internal/catalog"
	"libris/internal/circulation"
	"libris/internal/fines"
	"libris/internal/notifications"
)

// Store is an in-memory implementation of every persistence contract in
// the system. It backs unit tests and local runs without a database.
// Entities are stored by value so callers never share memory with the
// store.
type Store struct {
	mu          sync.RWMutex
	books       map[uuid.UUID]catalog.Book
	borrowers   map[uuid.UUID]borrowers.Borrower
	credentials map[uuid.UUID]borrowers.Credential
	records     map[uuid.UUID]circulation.BorrowRecord
	fines       map[uuid.UUID]fines.Fine
	notices     map[uuid.UUID]notifications.Notice
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		books:       make(map[uuid.UUID]catalog.Book),
		borrowers:   make(map[uuid.UUID]borrowers.Borrower),
		credentials: make(map[uuid.UUID]borrowers.Credential),
		records:     make(map[uuid.UUID]circulation.BorrowRecord),
		fines:       make(map[uuid.UUID]fines.Fine),
		notices:     make(map[uuid.UUID]notifications.Notice),
	}
}

// --- catalog.Store / circulation.BookStore ---

func (s *Store) GetBook(_ context.Context, id uuid.UUID) (*catalog.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	book, ok := s.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	return &book, nil
}

func (s *Store) SaveBook(_ context.Context, book *catalog.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[book.ID] = *book
	return nil
}

func (s *Store) ListBooks(_ context.Context, query string) ([]*catalog.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []*catalog.Book
	for _, book := range s.books {
		if q == "" ||
			strings.Contains(strings.ToLower(book.Title), q) ||
			strings.Contains(strings.ToLower(book.Author), q) ||
			strings.Contains(strings.ToLower(book.ISBN), q) {
			b := book
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) DeleteBook(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return catalog.ErrBookNotFound
	}
	delete(s.books, id)
	return nil
}

// --- borrowers.Store ---

func (s *Store) GetBorrower(_ context.Context, id uuid.UUID) (*borrowers.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.borrowers[id]
	if !ok {
		return nil, borrowers.ErrBorrowerNotFound
	}
	return &b, nil
}

func (s *Store) GetBorrowerByEmail(_ context.Context, email string) (*borrowers.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.borrowers {
		if b.Email == email {
			out := b
			return &out, nil
		}
	}
	return nil, borrowers.ErrBorrowerNotFound
}

func (s *Store) SaveBorrower(_ context.Context, b *borrowers.Borrower) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.borrowers[b.ID] = *b
	return nil
}

func (s *Store) ListBorrowers(_ context.Context) ([]*borrowers.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*borrowers.Borrower, 0, len(s.borrowers))
	for _, b := range s.borrowers {
		cp := b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCredential(_ context.Context, borrowerID uuid.UUID) (*borrowers.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.credentials[borrowerID]
	if !ok {
		return nil, borrowers.ErrBorrowerNotFound
	}
	return &c, nil
}

func (s *Store) SaveCredential(_ context.Context, c *borrowers.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[c.BorrowerID] = *c
	return nil
}

// --- circulation.BorrowerDirectory ---

func (s *Store) BorrowerStatus(_ context.Context, id uuid.UUID) (*circulation.BorrowerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.borrowers[id]
	if !ok {
		return nil, circulation.ErrBorrowerNotFound
	}
	return &circulation.BorrowerInfo{ID: b.ID, IsActive: b.IsActive}, nil
}

func (s *Store) CountActiveRecords(_ context.Context, borrowerID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.records {
		if r.BorrowerID == borrowerID && r.ReturnDate == nil {
			count++
		}
	}
	return count, nil
}

// --- circulation.RecordStore ---

func (s *Store) GetRecord(_ context.Context, id uuid.UUID) (*circulation.BorrowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, circulation.ErrRecordNotFound
	}
	return &r, nil
}

func (s *Store) SaveRecord(_ context.Context, record *circulation.BorrowRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = *record
	return nil
}

func (s *Store) ListRecords(_ context.Context, filter circulation.RecordFilter) ([]*circulation.BorrowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*circulation.BorrowRecord
	for _, r := range s.records {
		if filter.BorrowerID != nil && r.BorrowerID != *filter.BorrowerID {
			continue
		}
		if filter.BookID != nil && r.BookID != *filter.BookID {
			continue
		}
		if filter.OnlyOpen && r.ReturnDate != nil {
			continue
		}
		cp := r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BorrowDate.Before(out[j].BorrowDate) })
	return out, nil
}

// --- fines.Store ---

func (s *Store) GetFine(_ context.Context, id uuid.UUID) (*fines.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fines[id]
	if !ok {
		return nil, fines.ErrFineNotFound
	}
	return &f, nil
}

func (s *Store) SaveFine(_ context.Context, fine *fines.Fine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fines[fine.ID] = *fine
	return nil
}

func (s *Store) DeleteFine(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fines[id]; !ok {
		return fines.ErrFineNotFound
	}
	delete(s.fines, id)
	return nil
}

func (s *Store) ListFines(_ context.Context, filter fines.Filter) ([]*fines.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*fines.Fine
	for _, f := range s.fines {
		if filter.RecordID != nil && f.BorrowRecordID != *filter.RecordID {
			continue
		}
		if filter.Status != nil && f.Status != *filter.Status {
			continue
		}
		if filter.Reason != nil && f.Reason != *filter.Reason {
			continue
		}
		if filter.BorrowerID != nil {
			record, ok := s.records[f.BorrowRecordID]
			if !ok || record.BorrowerID != *filter.BorrowerID {
				continue
			}
		}
		cp := f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueDate.Before(out[j].IssueDate) })
	return out, nil
}

// --- notifications.Store ---

func (s *Store) GetNotice(_ context.Context, id uuid.UUID) (*notifications.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notices[id]
	if !ok {
		return nil, notifications.ErrNoticeNotFound
	}
	return &n, nil
}

func (s *Store) SaveNotice(_ context.Context, n *notifications.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices[n.ID] = *n
	return nil
}

func (s *Store) ListNotices(_ context.Context, filter notifications.Filter) ([]*notifications.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*notifications.Notice
	for _, n := range s.notices {
		if filter.BorrowerID != nil && n.BorrowerID != *filter.BorrowerID {
			continue
		}
		if filter.RecordID != nil && n.RecordID != *filter.RecordID {
			continue
		}
		if filter.Kind != nil && n.Kind != *filter.Kind {
			continue
		}
		if filter.UnreadOnly && n.ReadAt != nil {
			continue
		}
		cp := n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
