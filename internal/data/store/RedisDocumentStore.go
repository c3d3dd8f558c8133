package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/data/redisStore"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

// RedisDocumentStore holds the document records the pipeline reads and
// mutates. Status transitions and metadata writes go through here; the
// pipeline never deletes a document.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	internal := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if internal == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  internal,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	var doc docModel.Document
	val, err := s.store.Get(ctx, docKey(id))
	if s.store.IsNil(err) || err != nil {
		return doc, false
	}
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		s.logger.Error("Corrupt document record", "id", id, "error", err)
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	doc.UpdatedTime = time.Now()
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, docKey(doc.Id), data, config.RedisDocumentStoreTTL)
}

func (s *RedisDocumentStore) UpdateStatus(ctx context.Context, id string, status docModel.DocStatus, message string) error {
	doc, found := s.GetDocument(ctx, id)
	if !found {
		s.logger.Warn("Status update for unknown document", "id", id)
		doc = docModel.Document{Id: id, CreatedTime: time.Now()}
	}
	doc.Status = status
	doc.StatusMessage = message
	return s.SaveDocument(ctx, doc)
}

func docKey(id string) string {
	return "doc:" + id
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test docstore"),
	}
}
