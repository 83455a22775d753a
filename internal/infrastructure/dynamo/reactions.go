package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sindoca/api/internal/domain"
)

// ReactionRepo provides typed DynamoDB operations for the reactions table.
type ReactionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReactionRepo(client *dynamodb.Client, tableName string) *ReactionRepo {
	return &ReactionRepo{client: client, tableName: tableName}
}

func (r *ReactionRepo) Put(ctx context.Context, re *domain.Reaction) error {
	item, err := attributevalue.MarshalMap(re)
	if err != nil {
		return fmt.Errorf("marshal reaction: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReactionRepo) Get(ctx context.Context, reactionID string) (*domain.Reaction, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reaction_id", reactionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("reaction not found: %w", domain.ErrNotFound)
	}
	var re domain.Reaction
	if err := attributevalue.UnmarshalMap(out.Item, &re); err != nil {
		return nil, err
	}
	return &re, nil
}

// ListByContent returns every reaction attached to a content item.
func (r *ReactionRepo) ListByContent(ctx context.Context, contentID string) ([]domain.Reaction, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("content_id-index"),
		KeyConditionExpression: aws.String("content_id = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: contentID},
		},
	})
	if err != nil {
		return nil, err
	}
	var reactions []domain.Reaction
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *ReactionRepo) HardDelete(ctx context.Context, reactionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reaction_id", reactionID),
	})
	return err
}
