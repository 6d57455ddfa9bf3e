package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"medremind-backend/application/ports"
)

// connectionTTL bounds how long a registration outlives its socket when
// the disconnect event is lost.
const connectionTTL = 24 * time.Hour

// ConnectionRepository tracks WebSocket connections in a dedicated table
type ConnectionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ConnectionRepository {
	return &ConnectionRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func connectionPK(connectionID string) string {
	return fmt.Sprintf("CONNECTION#%s", connectionID)
}

// Save registers a connection with a TTL so stale registrations expire
// even if the disconnect event never arrives
func (r *ConnectionRepository) Save(ctx context.Context, conn ports.Connection) error {
	ttl := time.Now().Add(connectionTTL).Unix()

	item := map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: connectionPK(conn.ConnectionID)},
		"SK":           &types.AttributeValueMemberS{Value: "METADATA"},
		"GSI1PK":       &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", conn.Email)},
		"GSI1SK":       &types.AttributeValueMemberS{Value: connectionPK(conn.ConnectionID)},
		"ConnectionID": &types.AttributeValueMemberS{Value: conn.ConnectionID},
		"Email":        &types.AttributeValueMemberS{Value: conn.Email},
		"Endpoint":     &types.AttributeValueMemberS{Value: conn.Endpoint},
		"ConnectedAt":  &types.AttributeValueMemberS{Value: conn.ConnectedAt.Format(time.RFC3339)},
		"TTL":          &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ttl)},
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to store connection: %w", err)
	}

	r.logger.Debug("Stored connection",
		zap.String("connectionID", conn.ConnectionID),
		zap.String("email", conn.Email),
	)
	return nil
}

// Delete removes a connection registration
func (r *ConnectionRepository) Delete(ctx context.Context, connectionID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: connectionPK(connectionID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}

	return nil
}

// ListByRecipient retrieves every live connection for a recipient via the
// user index
func (r *ConnectionRepository) ListByRecipient(ctx context.Context, email string) ([]ports.Connection, error) {
	keyEx := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("USER#%s", email)))

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyEx).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("connection-user-index"),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	conns := make([]ports.Connection, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query connections: %w", err)
		}
		for _, item := range page.Items {
			conn := ports.Connection{Email: email}
			if v, ok := item["ConnectionID"].(*types.AttributeValueMemberS); ok {
				conn.ConnectionID = v.Value
			}
			if v, ok := item["Endpoint"].(*types.AttributeValueMemberS); ok {
				conn.Endpoint = v.Value
			}
			if v, ok := item["ConnectedAt"].(*types.AttributeValueMemberS); ok {
				if t, err := time.Parse(time.RFC3339, v.Value); err == nil {
					conn.ConnectedAt = t
				}
			}
			if conn.ConnectionID != "" {
				conns = append(conns, conn)
			}
		}
	}

	return conns, nil
}
