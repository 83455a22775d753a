package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sindoca/api/internal/domain"
)

// ReasonRepo provides typed DynamoDB operations for the reasons table.
type ReasonRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReasonRepo(client *dynamodb.Client, tableName string) *ReasonRepo {
	return &ReasonRepo{client: client, tableName: tableName}
}

func (r *ReasonRepo) Put(ctx context.Context, re *domain.Reason) error {
	item, err := attributevalue.MarshalMap(re)
	if err != nil {
		return fmt.Errorf("marshal reason: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReasonRepo) Get(ctx context.Context, reasonID string) (*domain.Reason, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reason_id", reasonID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("reason not found: %w", domain.ErrNotFound)
	}
	var re domain.Reason
	if err := attributevalue.UnmarshalMap(out.Item, &re); err != nil {
		return nil, err
	}
	return &re, nil
}

func (r *ReasonRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Reason, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("workspace_id-index"),
		KeyConditionExpression: aws.String("workspace_id = :w"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":w": &types.AttributeValueMemberS{Value: workspaceID},
		},
	})
	if err != nil {
		return nil, err
	}
	var reasons []domain.Reason
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reasons); err != nil {
		return nil, err
	}
	return reasons, nil
}

func (r *ReasonRepo) Update(ctx context.Context, reasonID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("reason_id", reasonID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *ReasonRepo) HardDelete(ctx context.Context, reasonID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reason_id", reasonID),
	})
	return err
}
