package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"medremind-backend/application/ports"
	"medremind-backend/domain/core/entities"
	"medremind-backend/domain/core/valueobjects"
	pkgerrors "medremind-backend/pkg/errors"
)

// MedicationRepository implements ports.MedicationRepository using DynamoDB
type MedicationRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewMedicationRepository creates a new MedicationRepository
func NewMedicationRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.MedicationRepository {
	return &MedicationRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// medicationItem represents the DynamoDB item structure for a medication
type medicationItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"` // For medication lookups by ID
	GSI1SK       string `dynamodbav:"GSI1SK"` // Always "METADATA" for medications
	EntityType   string `dynamodbav:"EntityType"`
	MedicationID string `dynamodbav:"MedicationID"`
	PatientEmail string `dynamodbav:"PatientEmail"`
	Name         string `dynamodbav:"Name"`
	Dosage       string `dynamodbav:"Dosage"`
	StartDate    string `dynamodbav:"StartDate"`
	EndDate      string `dynamodbav:"EndDate"`
	TimeOfDay    string `dynamodbav:"TimeOfDay"`
	Notes        string `dynamodbav:"Notes,omitempty"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
	UpdatedAt    string `dynamodbav:"UpdatedAt"`
}

func medicationPK(patientEmail string) string {
	return fmt.Sprintf("PATIENT#%s", patientEmail)
}

func medicationSK(id valueobjects.MedicationID) string {
	return fmt.Sprintf("MED#%s", id.String())
}

// Save persists a medication to DynamoDB. Writes are whole-item replacements.
func (r *MedicationRepository) Save(ctx context.Context, med *entities.Medication) error {
	item := medicationItem{
		PK:           medicationPK(med.PatientEmail()),
		SK:           medicationSK(med.ID()),
		GSI1PK:       fmt.Sprintf("MEDID#%s", med.ID().String()),
		GSI1SK:       "METADATA",
		EntityType:   "MEDICATION",
		MedicationID: med.ID().String(),
		PatientEmail: med.PatientEmail(),
		Name:         med.Name(),
		Dosage:       med.Dosage(),
		StartDate:    med.StartDate(),
		EndDate:      med.EndDate(),
		TimeOfDay:    med.TimeOfDay(),
		Notes:        med.Notes(),
		CreatedAt:    med.CreatedAt().Format(time.RFC3339),
		UpdatedAt:    med.UpdatedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal medication: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save medication",
			zap.Error(err),
			zap.String("medicationID", med.ID().String()),
		)
		return fmt.Errorf("failed to save medication: %w", err)
	}

	r.logger.Debug("Saved medication",
		zap.String("medicationID", med.ID().String()),
		zap.String("patient", med.PatientEmail()),
	)
	return nil
}

// GetByID retrieves a medication by its ID via the GSI
func (r *MedicationRepository) GetByID(ctx context.Context, id valueobjects.MedicationID) (*entities.Medication, error) {
	keyEx := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("MEDID#%s", id.String())))

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyEx).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query medication: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("medication")
	}

	return unmarshalMedication(result.Items[0])
}

// GetByPatient retrieves all medications owned by a patient
func (r *MedicationRepository) GetByPatient(ctx context.Context, patientEmail string) ([]*entities.Medication, error) {
	keyEx := expression.Key("PK").Equal(expression.Value(medicationPK(patientEmail)))
	keyEx = keyEx.And(expression.Key("SK").BeginsWith("MED#"))

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

	meds := make([]*entities.Medication, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query medications: %w", err)
		}
		for _, item := range page.Items {
			med, err := unmarshalMedication(item)
			if err != nil {
				r.logger.Warn("Skipping unreadable medication item", zap.Error(err))
				continue
			}
			meds = append(meds, med)
		}
	}

	return meds, nil
}

// GetAll retrieves every medication across all patients. The evaluator
// calls this once per pass; pagination is drained inside so the caller
// sees a single batch.
func (r *MedicationRepository) GetAll(ctx context.Context) ([]*entities.Medication, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("MEDICATION"))

	expr, err := expression.NewBuilder().
		WithFilter(filter).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	meds := make([]*entities.Medication, 0)
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medications: %w", err)
		}
		for _, item := range page.Items {
			med, err := unmarshalMedication(item)
			if err != nil {
				r.logger.Warn("Skipping unreadable medication item", zap.Error(err))
				continue
			}
			meds = append(meds, med)
		}
	}

	return meds, nil
}

// Delete removes a medication. The owning partition is resolved first
// because the table key needs the patient email.
func (r *MedicationRepository) Delete(ctx context.Context, id valueobjects.MedicationID) error {
	med, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: medicationPK(med.PatientEmail())},
			"SK": &types.AttributeValueMemberS{Value: medicationSK(id)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	r.logger.Debug("Deleted medication", zap.String("medicationID", id.String()))
	return nil
}

func unmarshalMedication(av map[string]types.AttributeValue) (*entities.Medication, error) {
	var item medicationItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal medication item: %w", err)
	}

	id, err := valueobjects.NewMedicationIDFromString(item.MedicationID)
	if err != nil {
		return nil, fmt.Errorf("invalid medication id in store: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructMedication(
		id,
		item.PatientEmail,
		item.Name,
		item.Dosage,
		item.StartDate,
		item.EndDate,
		item.TimeOfDay,
		item.Notes,
		createdAt,
		updatedAt,
	)
}
