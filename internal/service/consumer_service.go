package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"hybrid-search-be/internal/dto"
	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/repository/specification"
	"hybrid-search-be/internal/repository/unitofwork"
	"hybrid-search-be/pkg/embedding"
	"hybrid-search-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	client       *embedding.Client
	chunkSize    int
	chunkOverlap int
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	client *embedding.Client,
	chunkSize, chunkOverlap int,
) IConsumerService {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		client:       client,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal index message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Embedding document %s (namespace %s)", payload.DocumentId, payload.Namespace)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[WARN] Document not found, dropping message: %s", payload.DocumentId)
		msg.Ack() // Deleted between publish and consume? Ack.
		return
	}

	content := doc.Body
	if doc.Title != "" {
		content = doc.Title + "\n\n" + content
	}

	chunks := utils.SplitText(content, cs.chunkSize, cs.chunkOverlap)
	log.Printf("[INFO] Document %s split into %d chunks", doc.Id, len(chunks))

	entries := make([]*entity.VectorEntry, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := cs.client.Embed(ctx, chunk)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, doc.Id, err)
			msg.Nack()
			return
		}

		id := doc.Id
		if len(chunks) > 1 {
			id = fmt.Sprintf("%s_chunk_%d", doc.Id, i)
		}
		entries = append(entries, &entity.VectorEntry{
			Id:         id,
			DocumentId: doc.Id,
			ChunkIndex: i,
			Namespace:  payload.Namespace,
			Values:     vec,
			Metadata:   doc.Metadata,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Replace the document's vectors atomically so a shrinking document does
	// not leave stale chunk rows behind.
	if err := uow.VectorIndexRepository().DeleteByDocumentId(ctx, doc.Id, payload.Namespace); err != nil {
		log.Printf("[ERROR] Failed to delete old vectors for %s: %v", doc.Id, err)
		msg.Nack()
		return
	}

	if len(entries) > 0 {
		if _, err := uow.VectorIndexRepository().Upsert(ctx, entries); err != nil {
			log.Printf("[ERROR] Failed to upsert vectors for %s: %v", doc.Id, err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document indexed: %d chunks for %s", len(entries), doc.Id)
	msg.Ack()
}
