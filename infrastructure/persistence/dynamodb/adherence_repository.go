package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"medremind-backend/application/ports"
	"medremind-backend/domain/core/entities"
)

// AdherenceRepository implements the append-only adherence log on DynamoDB.
// Items are never updated or deleted; the date-prefixed sort key keeps each
// day's entries in one contiguous slice of the patient partition.
type AdherenceRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewAdherenceRepository creates a new AdherenceRepository
func NewAdherenceRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.AdherenceRepository {
	return &AdherenceRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// adherenceItem represents the DynamoDB item structure for one log entry
type adherenceItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	EntityType     string `dynamodbav:"EntityType"`
	EventID        string `dynamodbav:"EventID"`
	PatientEmail   string `dynamodbav:"PatientEmail"`
	MedicationName string `dynamodbav:"MedicationName"`
	Date           string `dynamodbav:"Date"`
	TimeRecorded   string `dynamodbav:"TimeRecorded"`
	Taken          bool   `dynamodbav:"Taken"`
}

func adherencePK(patientEmail string) string {
	return fmt.Sprintf("PATIENT#%s", patientEmail)
}

func adherenceSK(date, eventID string) string {
	return fmt.Sprintf("ADH#%s#%s", date, eventID)
}

// Append inserts a new adherence event. The condition expression rejects
// overwriting an existing event ID; concurrent appends for the same
// dose-slot land as distinct items.
func (r *AdherenceRepository) Append(ctx context.Context, event *entities.AdherenceEvent) error {
	item := adherenceItem{
		PK:             adherencePK(event.PatientEmail()),
		SK:             adherenceSK(event.Date(), event.ID()),
		EntityType:     "ADHERENCE",
		EventID:        event.ID(),
		PatientEmail:   event.PatientEmail(),
		MedicationName: event.MedicationName(),
		Date:           event.Date(),
		TimeRecorded:   event.TimeRecorded(),
		Taken:          event.Taken(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal adherence event: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to append adherence event",
			zap.Error(err),
			zap.String("eventID", event.ID()),
		)
		return fmt.Errorf("failed to append adherence event: %w", err)
	}

	return nil
}

// HasTakenEvent reports whether at least one taken=true event exists for
// (patient, medication name, date)
func (r *AdherenceRepository) HasTakenEvent(ctx context.Context, patientEmail, medicationName, date string) (bool, error) {
	keyEx := expression.Key("PK").Equal(expression.Value(adherencePK(patientEmail)))
	keyEx = keyEx.And(expression.Key("SK").BeginsWith(fmt.Sprintf("ADH#%s#", date)))

	filter := expression.Name("MedicationName").Equal(expression.Value(medicationName)).
		And(expression.Name("Taken").Equal(expression.Value(true)))

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyEx).
		WithFilter(filter).
		Build()
	if err != nil {
		return false, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to query adherence events: %w", err)
		}
		if len(page.Items) > 0 {
			return true, nil
		}
	}

	return false, nil
}

// ListByPatient retrieves all adherence events for a patient. No ordering
// promise is made; readers sort after collection.
func (r *AdherenceRepository) ListByPatient(ctx context.Context, patientEmail string) ([]*entities.AdherenceEvent, error) {
	keyEx := expression.Key("PK").Equal(expression.Value(adherencePK(patientEmail)))
	keyEx = keyEx.And(expression.Key("SK").BeginsWith("ADH#"))

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyEx).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	events := make([]*entities.AdherenceEvent, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query adherence events: %w", err)
		}
		for _, av := range page.Items {
			event, err := unmarshalAdherence(av)
			if err != nil {
				r.logger.Warn("Skipping unreadable adherence item", zap.Error(err))
				continue
			}
			events = append(events, event)
		}
	}

	return events, nil
}

func unmarshalAdherence(av map[string]types.AttributeValue) (*entities.AdherenceEvent, error) {
	var item adherenceItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal adherence item: %w", err)
	}

	return entities.ReconstructAdherenceEvent(
		item.EventID,
		item.PatientEmail,
		item.MedicationName,
		item.Date,
		item.TimeRecorded,
		item.Taken,
	), nil
}
