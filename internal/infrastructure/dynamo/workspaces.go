package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sindoca/api/internal/domain"
)

// WorkspaceRepo provides typed DynamoDB operations for the workspaces table.
type WorkspaceRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewWorkspaceRepo(client *dynamodb.Client, tableName string) *WorkspaceRepo {
	return &WorkspaceRepo{client: client, tableName: tableName}
}

func (r *WorkspaceRepo) Put(ctx context.Context, w *domain.Workspace) error {
	item, err := attributevalue.MarshalMap(w)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *WorkspaceRepo) Get(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("workspace_id", workspaceID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("workspace not found: %w", domain.ErrNotFound)
	}
	var w domain.Workspace
	if err := attributevalue.UnmarshalMap(out.Item, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkspaceRepo) Update(ctx context.Context, workspaceID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("workspace_id", workspaceID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}
