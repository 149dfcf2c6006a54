package service

import (
	"context"

	"catalog-chat-be/internal/constant"
	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/pkg/logger"
	"catalog-chat-be/pkg/embedding"
	"catalog-chat-be/pkg/pinecone"
	"catalog-chat-be/pkg/store"
)

// NamespaceRegistry is the persisted set of known namespaces, shared by
// ingestion (writes) and retrieval (reads).
type NamespaceRegistry interface {
	List() []string
	Register(name string) error
}

type IIngestService interface {
	Upload(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error)
	Namespaces() []string
}

type ingestService struct {
	embedder embedding.EmbeddingProvider
	index    pinecone.Index
	registry NamespaceRegistry
	logger   logger.ILogger
}

func NewIngestService(
	embedder embedding.EmbeddingProvider,
	index pinecone.Index,
	registry NamespaceRegistry,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		embedder: embedder,
		index:    index,
		registry: registry,
		logger:   log,
	}
}

// Upload embeds the text and upserts it under the given namespace. Upsert
// by id overwrites: repeating an id replaces the stored entry, which is
// the only idempotence guarantee.
func (s *ingestService) Upload(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error) {
	if err := s.registry.Register(req.Namespace); err != nil {
		return nil, err
	}

	vector, err := s.embedder.Generate(ctx, req.Texto)
	if err != nil {
		return nil, err
	}

	err = s.index.Upsert(ctx, req.Namespace, []pinecone.Vector{
		{
			Id:       req.Id,
			Values:   vector,
			Metadata: store.Metadata{"texto": req.Texto},
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(constant.ModuleIngestService, "Entry upserted", map[string]interface{}{
		"id":        req.Id,
		"namespace": req.Namespace,
	})

	return &dto.UploadResponse{Ok: true, Mensaje: "Subido correctamente"}, nil
}

func (s *ingestService) Namespaces() []string {
	return s.registry.List()
}
