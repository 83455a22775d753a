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

// PhotoRepo provides typed DynamoDB operations for the photos table.
type PhotoRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPhotoRepo(client *dynamodb.Client, tableName string) *PhotoRepo {
	return &PhotoRepo{client: client, tableName: tableName}
}

func (r *PhotoRepo) Put(ctx context.Context, p *domain.Photo) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal photo: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PhotoRepo) Get(ctx context.Context, photoID string) (*domain.Photo, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("photo_id", photoID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("photo not found: %w", domain.ErrNotFound)
	}
	var p domain.Photo
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByWorkspace queries the workspace GSI in reverse creation order
// (newest first) and filters out soft-deleted photos.
func (r *PhotoRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Photo, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("workspace_id-created_at-index"),
		KeyConditionExpression: aws.String("workspace_id = :w"),
		FilterExpression:       aws.String("#en = :t"),
		ExpressionAttributeNames: map[string]string{
			"#en": "enable",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":w": &types.AttributeValueMemberS{Value: workspaceID},
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var photos []domain.Photo
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PhotoRepo) Update(ctx context.Context, photoID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("photo_id", photoID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *PhotoRepo) SoftDelete(ctx context.Context, photoID string) error {
	return r.Update(ctx, photoID, map[string]interface{}{"enable": false})
}
