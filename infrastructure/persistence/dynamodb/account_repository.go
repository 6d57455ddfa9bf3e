package dynamodb

import (
	"context"
	"errors"
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
	pkgerrors "medremind-backend/pkg/errors"
)

// AccountRepository implements ports.AccountRepository using DynamoDB
type AccountRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.AccountRepository {
	return &AccountRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// accountItem represents the DynamoDB item structure for an account.
// Caregivers is a string set so grants can be added atomically with ADD.
type accountItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	Email      string   `dynamodbav:"Email"`
	Role       string   `dynamodbav:"Role"`
	Caregivers []string `dynamodbav:"Caregivers,stringset,omitempty"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
}

func accountPK(email string) string {
	return fmt.Sprintf("USER#%s", email)
}

// Create persists a new account. The conditional write guards the profile
// record: re-registering an existing email must never replace its role or
// wipe its caregiver grants.
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	item := accountItem{
		PK:         accountPK(account.Email()),
		SK:         "PROFILE",
		EntityType: "ACCOUNT",
		Email:      account.Email(),
		Role:       string(account.Role()),
		Caregivers: account.Caregivers(),
		CreatedAt:  account.CreatedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("account already registered")
		}
		r.logger.Error("Failed to create account",
			zap.Error(err),
			zap.String("email", account.Email()),
		)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GrantCaregiver appends one caregiver to the patient's caregiver set with
// a single ADD update. ADD on a string set is both atomic and idempotent,
// so concurrent grants from two devices merge instead of racing a
// read-modify-write of the whole profile.
func (r *AccountRepository) GrantCaregiver(ctx context.Context, patientEmail, caregiverEmail string) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(patientEmail)},
			"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
		UpdateExpression:    aws.String("ADD Caregivers :caregiver"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":caregiver": &types.AttributeValueMemberSS{Value: []string{caregiverEmail}},
		},
	}

	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError("account")
		}
		r.logger.Error("Failed to grant caregiver",
			zap.Error(err),
			zap.String("patient", patientEmail),
			zap.String("caregiver", caregiverEmail),
		)
		return fmt.Errorf("failed to grant caregiver: %w", err)
	}

	return nil
}

// GetByEmail retrieves an account by its email identity
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(email)},
			"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("account")
	}

	return unmarshalAccount(result.Item)
}

// FindPatientsByCaregiver retrieves every patient account whose caregiver
// set contains the given email. The relation lives only on patient records
// so this is a filtered scan over account profiles.
func (r *AccountRepository) FindPatientsByCaregiver(ctx context.Context, caregiverEmail string) ([]*entities.Account, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("ACCOUNT")).
		And(expression.Name("Role").Equal(expression.Value(string(entities.RolePatient)))).
		And(expression.Name("Caregivers").Contains(caregiverEmail))

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

	accounts := make([]*entities.Account, 0)
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accounts: %w", err)
		}
		for _, av := range page.Items {
			account, err := unmarshalAccount(av)
			if err != nil {
				r.logger.Warn("Skipping unreadable account item", zap.Error(err))
				continue
			}
			accounts = append(accounts, account)
		}
	}

	return accounts, nil
}

func unmarshalAccount(av map[string]types.AttributeValue) (*entities.Account, error) {
	var item accountItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account item: %w", err)
	}

	role, err := entities.ParseRole(item.Role)
	if err != nil {
		return nil, fmt.Errorf("invalid role in store: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	return entities.ReconstructAccount(item.Email, role, item.Caregivers, createdAt), nil
}
