package store

import (
	"context"
	"sync"
	"time"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

type InMemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]docModel.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docs: make(map[string]docModel.Document),
	}
}

func (s *InMemoryDocumentStore) GetDocument(_ context.Context, id string) (docModel.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, found := s.docs[id]
	return doc, found
}

func (s *InMemoryDocumentStore) SaveDocument(_ context.Context, doc docModel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.UpdatedTime = time.Now()
	s.docs[doc.Id] = doc
	return nil
}

func (s *InMemoryDocumentStore) UpdateStatus(ctx context.Context, id string, status docModel.DocStatus, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, found := s.docs[id]
	if !found {
		doc = docModel.Document{Id: id, CreatedTime: time.Now()}
	}
	doc.Status = status
	doc.StatusMessage = message
	doc.UpdatedTime = time.Now()
	s.docs[id] = doc
	return nil
}
