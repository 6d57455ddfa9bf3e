// Package notify delivers reminders to connected clients over the API
// Gateway WebSocket management API.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwTypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"go.uber.org/zap"

	"medremind-backend/application/ports"
)

// message types pushed to clients
const (
	messageTypeReminder = "reminder"
	messageTypeDismiss  = "dismiss"
)

// wireMessage is the JSON frame pushed down the socket
type wireMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
}

// connectionPoster is the slice of the management API the sink uses.
// *apigatewaymanagementapi.Client satisfies it.
type connectionPoster interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// WebSocketSink implements ports.NotificationSink over API Gateway
// WebSocket connections. Clients key local notifications by the frame ID,
// so re-pushing the same ID replaces rather than duplicates.
type WebSocketSink struct {
	apiClient   connectionPoster
	connections ports.ConnectionRepository
	logger      *zap.Logger
}

// NewWebSocketSink creates a new WebSocket notification sink
func NewWebSocketSink(
	apiClient *apigatewaymanagementapi.Client,
	connections ports.ConnectionRepository,
	logger *zap.Logger,
) ports.NotificationSink {
	return &WebSocketSink{
		apiClient:   apiClient,
		connections: connections,
		logger:      logger,
	}
}

// Emit pushes one reminder to every live connection of the recipient.
// Recipients with no connections are not an error; the reminder surfaces
// on their next pass once they reconnect.
func (s *WebSocketSink) Emit(ctx context.Context, n ports.Notification) error {
	frame := wireMessage{
		Type:      messageTypeReminder,
		Timestamp: time.Now().Unix(),
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
	}
	return s.push(ctx, n.Recipient, frame)
}

// Dismiss retracts a previously emitted notification on every device
func (s *WebSocketSink) Dismiss(ctx context.Context, recipient, notificationID string) error {
	frame := wireMessage{
		Type:      messageTypeDismiss,
		Timestamp: time.Now().Unix(),
		ID:        notificationID,
	}
	return s.push(ctx, recipient, frame)
}

func (s *WebSocketSink) push(ctx context.Context, recipient string, frame wireMessage) error {
	conns, err := s.connections.ListByRecipient(ctx, recipient)
	if err != nil {
		return fmt.Errorf("failed to list connections: %w", err)
	}
	if len(conns) == 0 {
		s.logger.Debug("No live connections for recipient", zap.String("recipient", recipient))
		return nil
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	var failed, gone int
	for _, conn := range conns {
		input := &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: &conn.ConnectionID,
			Data:         data,
		}

		if _, err := s.apiClient.PostToConnection(ctx, input); err != nil {
			var goneErr *apigwTypes.GoneException
			if errors.As(err, &goneErr) {
				// Socket closed without a disconnect event; prune it
				gone++
				if delErr := s.connections.Delete(ctx, conn.ConnectionID); delErr != nil {
					s.logger.Warn("Failed to prune stale connection",
						zap.String("connectionID", conn.ConnectionID),
						zap.Error(delErr),
					)
				}
				continue
			}
			failed++
			s.logger.Warn("Failed to post to connection",
				zap.String("connectionID", conn.ConnectionID),
				zap.Error(err),
			)
		}
	}

	// Partial delivery counts as delivered; total failure does not
	delivered := len(conns) - failed - gone
	if delivered == 0 {
		if failed > 0 {
			return fmt.Errorf("failed to deliver to all %d connections for %s", len(conns), recipient)
		}
		// Every connection was stale. Same as having none: the recipient
		// is offline and the next pass re-emits the same frame ID
		s.logger.Info("All connections gone, nothing delivered",
			zap.String("recipient", recipient),
			zap.Int("pruned", gone),
		)
	}
	return nil
}
