package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ErrPassInProgress indicates another worker currently holds the pass lock.
var ErrPassInProgress = errors.New("evaluation pass already in progress")

// PassLock serializes evaluator passes across workers using DynamoDB
// conditional writes. Only one scheduled invocation at a time should walk
// the medication table, otherwise accounts receive duplicate reminders
// before the adherence check can suppress them.
type PassLock struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

func NewPassLock(client *dynamodb.Client, tableName string, logger *zap.Logger) *PassLock {
	return &PassLock{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Acquire takes the pass lock for the given owner. The lock self-expires
// after holdFor so a crashed worker cannot wedge the scheduler.
func (pl *PassLock) Acquire(ctx context.Context, ownerID string, holdFor time.Duration) (*HeldLock, error) {
	now := time.Now()
	expiresAt := now.Add(holdFor)
	lockID := fmt.Sprintf("%s_%d", ownerID, now.UnixNano())

	item := map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: "LOCK#reminder-pass"},
		"SK":         &types.AttributeValueMemberS{Value: "LOCK"},
		"LockID":     &types.AttributeValueMemberS{Value: lockID},
		"Owner":      &types.AttributeValueMemberS{Value: ownerID},
		"AcquiredAt": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		"ExpiresAt":  &types.AttributeValueMemberS{Value: expiresAt.Format(time.RFC3339)},
		"TTL":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt.Unix())},
	}

	_, err := pl.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(pl.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR ExpiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			pl.logger.Debug("Pass lock held by another worker",
				zap.String("owner", ownerID),
			)
			return nil, ErrPassInProgress
		}
		return nil, fmt.Errorf("failed to acquire pass lock: %w", err)
	}

	pl.logger.Debug("Pass lock acquired",
		zap.String("lockID", lockID),
		zap.String("owner", ownerID),
		zap.Duration("holdFor", holdFor),
	)

	return &HeldLock{
		lock:      pl,
		lockID:    lockID,
		ownerID:   ownerID,
		expiresAt: expiresAt,
	}, nil
}

// HeldLock is an acquired pass lock.
type HeldLock struct {
	lock      *PassLock
	lockID    string
	ownerID   string
	expiresAt time.Time
}

// Release deletes the lock record. Releasing a lock that already expired
// and was claimed by another owner is a no-op.
func (hl *HeldLock) Release(ctx context.Context) error {
	_, err := hl.lock.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(hl.lock.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "LOCK#reminder-pass"},
			"SK": &types.AttributeValueMemberS{Value: "LOCK"},
		},
		ConditionExpression: aws.String("LockID = :lockId AND #owner = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "Owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lockId": &types.AttributeValueMemberS{Value: hl.lockID},
			":owner":  &types.AttributeValueMemberS{Value: hl.ownerID},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			hl.lock.logger.Warn("Pass lock already released or reclaimed",
				zap.String("lockID", hl.lockID),
			)
			return nil
		}
		return fmt.Errorf("failed to release pass lock: %w", err)
	}
	return nil
}

func (hl *HeldLock) IsExpired() bool {
	return time.Now().After(hl.expiresAt)
}
