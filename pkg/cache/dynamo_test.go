package cache

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDynamo guarda os itens em memória, espelhando só o que o store usa.
type mockDynamo struct {
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(av map[string]types.AttributeValue) string {
	return av[dynamoHashKey].(*types.AttributeValueMemberS).Value
}

func (m *mockDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	item, ok := m.items[keyOf(in.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.items[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(m.items, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	out := &dynamodb.ScanOutput{}
	for _, item := range m.items {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func TestDynamoStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewDynamoStore(newMockDynamo(), "cache-table", 0)

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "abc", []byte("payload")))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestDynamoStore_TTLExpirado(t *testing.T) {
	ctx := context.Background()
	store := NewDynamoStore(newMockDynamo(), "cache-table", time.Minute)

	base := time.Now()
	store.now = func() time.Time { return base }
	require.NoError(t, store.Set(ctx, "abc", []byte("payload")))

	// Antes do vencimento: hit
	store.now = func() time.Time { return base.Add(30 * time.Second) }
	_, err := store.Get(ctx, "abc")
	require.NoError(t, err)

	// Depois do vencimento, mesmo que o TTL do Dynamo ainda não tenha varrido: miss
	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestDynamoStore_Purge(t *testing.T) {
	ctx := context.Background()
	mock := newMockDynamo()
	store := NewDynamoStore(mock, "cache-table", 0)

	require.NoError(t, store.Set(ctx, "k1", []byte("a")))
	require.NoError(t, store.Set(ctx, "k2", []byte("b")))

	require.NoError(t, store.Purge(ctx))
	assert.Empty(t, mock.items)
}
