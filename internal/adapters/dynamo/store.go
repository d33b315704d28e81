package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"fieldtrack.service/internal/ports/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Client defines the subset of the DynamoDB API the store uses.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store is the DynamoDB implementation of the record store port. Uniqueness
// is enforced with attribute_not_exists condition expressions so concurrent
// creates resolve to exactly one winner on the server side. Every operation
// is a single attempt; backend failures surface as store.ErrUnavailable.
type Store struct {
	client Client
}

func NewStore(client Client) *Store {
	return &Store{client: client}
}

func (s *Store) Put(ctx context.Context, table string, key store.Key, item any) error {
	annotate(ctx, table, key)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshaling item for %s: %w", table, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return unavailable("put", table, err)
	}
	return nil
}

func (s *Store) PutIfAbsent(ctx context.Context, table string, key store.Key, item any) error {
	annotate(ctx, table, key)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshaling item for %s: %w", table, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(table),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": key.Name},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return store.ErrDuplicateKey
		}
		return unavailable("conditional put", table, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, table string, key store.Key, out any) error {
	annotate(ctx, table, key)

	output, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       keyAttributes(key),
	})
	if err != nil {
		return unavailable("get", table, err)
	}
	if len(output.Item) == 0 {
		return store.ErrNotFound
	}

	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return fmt.Errorf("unmarshaling item from %s: %w", table, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, table string, key store.Key, sets map[string]any) error {
	annotate(ctx, table, key)

	// Deterministic expression order keeps traces and logs stable.
	fields := make([]string, 0, len(sets))
	for field := range sets {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	names := map[string]string{"#pk": key.Name}
	values := make(map[string]types.AttributeValue, len(sets))
	clauses := make([]string, 0, len(sets))
	for i, field := range fields {
		av, err := attributevalue.Marshal(sets[field])
		if err != nil {
			return fmt.Errorf("marshaling field %s for %s: %w", field, table, err)
		}
		namePlaceholder := fmt.Sprintf("#f%d", i)
		valuePlaceholder := fmt.Sprintf(":v%d", i)
		names[namePlaceholder] = field
		values[valuePlaceholder] = av
		clauses = append(clauses, namePlaceholder+" = "+valuePlaceholder)
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       keyAttributes(key),
		UpdateExpression:          aws.String("SET " + strings.Join(clauses, ", ")),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return store.ErrNotFound
		}
		return unavailable("update", table, err)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, table string, out any) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("db.table", table))

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		output, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return unavailable("scan", table, err)
		}
		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil {
			break
		}
		startKey = output.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshaling items from %s: %w", table, err)
	}
	return nil
}

func keyAttributes(key store.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		key.Name: &types.AttributeValueMemberS{Value: key.Value},
	}
}

func annotate(ctx context.Context, table string, key store.Key) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("db.table", table),
		attribute.String("db.key", key.Value),
	)
}

func unavailable(op, table string, err error) error {
	return fmt.Errorf("%s on %s: %w: %v", op, table, store.ErrUnavailable, err)
}
