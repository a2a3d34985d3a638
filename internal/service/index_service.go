package service

import (
	"context"
	"encoding/json"
	"time"

	"hybrid-search-be/internal/dto"
	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/repository/unitofwork"
)

type IIndexService interface {
	Index(ctx context.Context, req *dto.IndexRequest) (*dto.IndexResponse, error)
	Delete(ctx context.Context, id, namespace string) error
}

type indexService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewIndexService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) IIndexService {
	return &indexService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

// Index persists the document rows transactionally, then queues each document
// for asynchronous embedding. Search sees the keyword row immediately; the
// vector side catches up when the consumer processes the message.
func (s *indexService) Index(ctx context.Context, req *dto.IndexRequest) (*dto.IndexResponse, error) {
	namespace := req.Namespace
	if namespace == "" {
		namespace = "default"
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	for _, d := range req.Documents {
		doc := &entity.Document{
			Id:        d.Id,
			Title:     d.Title,
			Abstract:  d.Abstract,
			Body:      d.Body,
			Namespace: namespace,
			Metadata:  d.Metadata,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uow.DocumentRepository().Upsert(ctx, doc); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	results := make([]dto.IndexResultItem, 0, len(req.Documents))
	for _, d := range req.Documents {
		payload, err := json.Marshal(dto.PublishIndexDocumentMessage{
			DocumentId: d.Id,
			Namespace:  namespace,
		})
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			return nil, err
		}
		results = append(results, dto.IndexResultItem{Id: d.Id, Status: "queued"})
	}

	return &dto.IndexResponse{
		Success: true,
		Results: results,
	}, nil
}

// Delete removes the document row and its vectors in one transaction.
func (s *indexService) Delete(ctx context.Context, id, namespace string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.VectorIndexRepository().DeleteByDocumentId(ctx, id, namespace); err != nil {
		return err
	}

	return uow.Commit()
}
