package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
)

// DynamoDBAPI is the subset of *dynamodb.Client used by the store.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoDBOptions configures the dynamodb driver.
type DynamoDBOptions struct {
	// Client talks to DynamoDB.
	Client DynamoDBAPI
	// Table is the table name. Its partition key is the string attribute "PK"
	// and its TTL attribute is "TTL".
	Table string
}

type dynamoItem struct {
	PK    string `dynamodbav:"PK"`
	Value []byte `dynamodbav:"Value"`
	TTL   int64  `dynamodbav:"TTL,omitempty"`
}

// DynamoDB implements Store on a DynamoDB table.
type DynamoDB struct {
	client DynamoDBAPI
	table  string
	clock  clock.Clocker
}

// NewDynamoDB returns a DynamoDB-backed store.
func NewDynamoDB(opts DynamoDBOptions, c clock.Clocker) *DynamoDB {
	if c == nil {
		c = clock.New()
	}

	return &DynamoDB{client: opts.Client, table: opts.Table, clock: c}
}

// Put writes the item for key, replacing any previous one.
func (d *DynamoDB) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	item := dynamoItem{PK: key, Value: value}
	if ttl > 0 {
		item.TTL = d.clock.Now().Add(ttl).Unix()
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("kvstore: marshal dynamodb item: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	})

	return err
}

// Get reads the item for key, hiding items past their TTL.
func (d *DynamoDB) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, goerror.ErrNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("kvstore: unmarshal dynamodb item: %w", err)
	}

	if item.TTL > 0 && d.clock.Now().Unix() >= item.TTL {
		return nil, goerror.ErrNotFound
	}

	return item.Value, nil
}

// Delete removes the item for key.
func (d *DynamoDB) Delete(ctx context.Context, key string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.table),
		Key:       d.key(key),
	})

	return err
}

func (d *DynamoDB) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: key},
	}
}
