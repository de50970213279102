package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBClient é o subconjunto da API usado pelo store; interface para mock.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

const dynamoHashKey = "cache_key"

type cacheItem struct {
	CacheKey  string `dynamodbav:"cache_key"`
	Payload   []byte `dynamodbav:"payload"`
	ExpiresAt int64  `dynamodbav:"expires_at,omitempty"`
}

// DynamoStore guarda cada resposta como um item; o atributo expires_at
// alimenta o TTL nativo da tabela. Itens já vencidos mas ainda não varridos
// pelo TTL do Dynamo são tratados como miss.
type DynamoStore struct {
	client DynamoDBClient
	table  string
	ttl    time.Duration
	now    func() time.Time
}

func NewDynamoStore(client DynamoDBClient, table string, ttl time.Duration) *DynamoStore {
	return &DynamoStore{client: client, table: table, ttl: ttl, now: time.Now}
}

func (d *DynamoStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			dynamoHashKey: &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo cache: get falhou: %w", err)
	}
	if out.Item == nil {
		return nil, ErrMiss
	}

	var item cacheItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("dynamo cache: unmarshal falhou: %w", err)
	}
	if item.ExpiresAt > 0 && item.ExpiresAt <= d.now().Unix() {
		return nil, ErrMiss
	}
	return item.Payload, nil
}

func (d *DynamoStore) Set(ctx context.Context, key string, value []byte) error {
	item := cacheItem{CacheKey: key, Payload: value}
	if d.ttl > 0 {
		item.ExpiresAt = d.now().Add(d.ttl).Unix()
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamo cache: marshal falhou: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamo cache: put falhou: %w", err)
	}
	return nil
}

// Purge varre a tabela (projeção apenas da chave, paginada) e remove todos
// os itens do cache.
func (d *DynamoStore) Purge(ctx context.Context) error {
	proj := expression.NamesList(expression.Name(dynamoHashKey))
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return fmt.Errorf("dynamo cache: expressão inválida: %w", err)
	}

	var startKey map[string]types.AttributeValue
	for {
		out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                aws.String(d.table),
			ProjectionExpression:     expr.Projection(),
			ExpressionAttributeNames: expr.Names(),
			ExclusiveStartKey:        startKey,
		})
		if err != nil {
			return fmt.Errorf("dynamo cache: scan falhou: %w", err)
		}

		for _, item := range out.Items {
			_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(d.table),
				Key: map[string]types.AttributeValue{
					dynamoHashKey: item[dynamoHashKey],
				},
			})
			if err != nil {
				return fmt.Errorf("dynamo cache: delete falhou: %w", err)
			}
		}

		if out.LastEvaluatedKey == nil {
			return nil
		}
		startKey = out.LastEvaluatedKey
	}
}
