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

// MusicTokenRepo provides typed DynamoDB operations for the music_tokens
// table (one OAuth token row per workspace).
type MusicTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMusicTokenRepo(client *dynamodb.Client, tableName string) *MusicTokenRepo {
	return &MusicTokenRepo{client: client, tableName: tableName}
}

func (r *MusicTokenRepo) Put(ctx context.Context, t *domain.MusicToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal music token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *MusicTokenRepo) Get(ctx context.Context, workspaceID string) (*domain.MusicToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("workspace_id", workspaceID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("music token not found: %w", domain.ErrNotFound)
	}
	var t domain.MusicToken
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *MusicTokenRepo) Update(ctx context.Context, workspaceID string, updates map[string]interface{}) error {
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

func (r *MusicTokenRepo) Delete(ctx context.Context, workspaceID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("workspace_id", workspaceID),
	})
	return err
}
