package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog-console-be/internal/pkg/logger"
	internalWS "catalog-console-be/internal/websocket"
	"catalog-console-be/pkg/events"
	pktNats "catalog-console-be/pkg/nats"
)

// NotificationDelivery defines how to push real-time updates.
// Implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Broadcast(notification internalWS.Notification)
}

type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the governance event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("governance.>", "console-notifier", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to governance.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the stream prefix; strip it back to the type code.
	typeCode := strings.TrimPrefix(event.EventType(), "governance.")
	payload := event.Payload()

	switch typeCode {
	case events.TypeQualityRemediation:
		assetName, _ := payload["asset_name"].(string)
		dimension, _ := payload["dimension"].(string)
		assignee, _ := payload["assignee_email"].(string)
		s.delivery.Broadcast(internalWS.Notification{
			Type:      typeCode,
			Title:     "Quality issue assigned",
			Message:   fmt.Sprintf("%s issue on %s assigned to %s", dimension, assetName, assignee),
			Metadata:  payload,
			CreatedAt: time.Now(),
		})

	case events.TypeAssetUpdated:
		assetName, _ := payload["asset_name"].(string)
		s.delivery.Broadcast(internalWS.Notification{
			Type:      typeCode,
			Title:     "Asset updated",
			Message:   fmt.Sprintf("Catalog asset %s was updated", assetName),
			Metadata:  payload,
			CreatedAt: time.Now(),
		})

	default:
		// Logins and feedback stay on the bus for audit consumers; the
		// console feed does not surface them.
	}

	return nil
}
