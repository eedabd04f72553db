package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/repository/specification"
	"catalog-console-be/internal/repository/unitofwork"
	"catalog-console-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
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
	var payload dto.PublishEmbedAssetMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // invalid payload will never succeed, drop it
		return
	}

	if cs.embeddingProvider == nil {
		msg.Ack() // embeddings disabled, nothing to do
		return
	}

	log.Printf("[INFO] Processing embedding for AssetId: %s", payload.AssetId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	asset, err := uow.AssetRepository().FindOne(ctx, specification.ByID{ID: payload.AssetId})
	if err != nil {
		log.Printf("[ERROR] Failed to get asset %s: %v", payload.AssetId, err)
		msg.Nack()
		return
	}
	if asset == nil {
		// Asset deleted between publish and consume, drop the embedding too.
		if err := uow.AssetEmbeddingRepository().DeleteByAssetId(ctx, payload.AssetId); err != nil {
			log.Printf("[ERROR] Failed to delete orphan embedding for %s: %v", payload.AssetId, err)
			msg.Nack()
			return
		}
		msg.Ack()
		return
	}

	document := fmt.Sprintf(`Asset Name: %s
Asset Type: %s
Owner: %s
Department: %s

%s`,
		asset.Name,
		asset.AssetType,
		asset.Owner,
		asset.Department,
		asset.Description,
	)

	res, err := cs.embeddingProvider.Generate(document, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for asset %s: %v", payload.AssetId, err)
		msg.Nack()
		return
	}

	embeddingEntity := &entity.AssetEmbedding{
		Id:        uuid.New(),
		AssetId:   asset.Id,
		Document:  document,
		Values:    res.Embedding.Values,
		CreatedAt: time.Now(),
	}

	if err := uow.AssetEmbeddingRepository().Upsert(ctx, embeddingEntity); err != nil {
		log.Printf("[ERROR] Failed to upsert embedding: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Asset embedded: %s", payload.AssetId)
	msg.Ack()
}
