package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DynamoSlotAPI is the subset of the DynamoDB client used for slots
type DynamoSlotAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// slotRecord is one item of the slot table; slot_key is the partition key
type slotRecord struct {
	SlotKey   string `dynamodbav:"slot_key"`
	Payload   string `dynamodbav:"payload"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// DynamoSlotRepository stores slots as items of a DynamoDB table
type DynamoSlotRepository struct {
	client DynamoSlotAPI
	table  string
	log    *zap.Logger
	now    func() time.Time
}

var _ SlotRepositoryInterface = (*DynamoSlotRepository)(nil)

func NewDynamoSlotRepository(client DynamoSlotAPI, table string, log *zap.Logger) *DynamoSlotRepository {
	return &DynamoSlotRepository{
		client: client,
		table:  table,
		log:    log.With(zap.String("component", "slot_repository"), zap.String("dialect", "dynamodb")),
		now:    time.Now,
	}
}

func slotKeyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"slot_key": &types.AttributeValueMemberS{Value: key},
	}
}

// Get returns the payload stored under key, or ErrSlotNotFound.
// Reads are strongly consistent so a save is visible to the next load.
func (r *DynamoSlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            slotKeyAttr(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		r.log.Error("❌ Get: Error reading slot", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	if out.Item == nil {
		return nil, ErrSlotNotFound
	}

	var record slotRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to parse slot %q: %w", key, err)
	}
	return []byte(record.Payload), nil
}

// Put overwrites the payload stored under key
func (r *DynamoSlotRepository) Put(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(slotRecord{
		SlotKey:   key,
		Payload:   string(value),
		UpdatedAt: r.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal slot %q: %w", key, err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		r.log.Error("❌ Put: Error writing slot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (r *DynamoSlotRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       slotKeyAttr(key),
	}); err != nil {
		r.log.Error("❌ Delete: Error deleting slot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}
	return nil
}
