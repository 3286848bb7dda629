package users

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viktorkr/authapp/internal/common"
	"github.com/viktorkr/authapp/internal/server/models"
)

// fakeDynamo implements dynamoAPI for unit tests.
type fakeDynamo struct {
	putErr    error
	putInput  *dynamodb.PutItemInput
	getOut    *dynamodb.GetItemOutput
	getErr    error
	queryOut  *dynamodb.QueryOutput
	queryErr  error
	queryIn   *dynamodb.QueryInput
	updateOut *dynamodb.UpdateItemOutput
	updateErr error
	updateIn  *dynamodb.UpdateItemInput
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryIn = in
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryOut, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateIn = in
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func TestDynamoRepository_Create_ConditionalPut(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewDynamoRepository(fake, "users")

	require.NoError(t, repo.Create(context.Background(), newUser("id-1", "a@b.com")))

	require.NotNil(t, fake.putInput)
	assert.Equal(t, "users", *fake.putInput.TableName)
	assert.Equal(t, "attribute_not_exists(email)", *fake.putInput.ConditionExpression,
		"uniqueness must be enforced by the conditional write itself")

	emailAttr, ok := fake.putInput.Item["email"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", emailAttr.Value)
}

func TestDynamoRepository_Create_LostRace(t *testing.T) {
	fake := &fakeDynamo{putErr: &types.ConditionalCheckFailedException{}}
	repo := NewDynamoRepository(fake, "users")

	err := repo.Create(context.Background(), newUser("id-2", "a@b.com"))
	assert.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestDynamoRepository_Create_BackendDown(t *testing.T) {
	fake := &fakeDynamo{putErr: errors.New("RequestError: connection refused")}
	repo := NewDynamoRepository(fake, "users")

	err := repo.Create(context.Background(), newUser("id-3", "a@b.com"))
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestDynamoRepository_GetByEmail(t *testing.T) {
	u := newUser("id-1", "a@b.com")
	item, err := attributevalue.MarshalMap(u)
	require.NoError(t, err)

	fake := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}}
	repo := NewDynamoRepository(fake, "users")

	got, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
}

func TestDynamoRepository_GetByEmail_Missing(t *testing.T) {
	fake := &fakeDynamo{getOut: &dynamodb.GetItemOutput{}}
	repo := NewDynamoRepository(fake, "users")

	_, err := repo.GetByEmail(context.Background(), "missing@b.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDynamoRepository_GetByID_QueriesIndex(t *testing.T) {
	u := newUser("id-1", "a@b.com")
	item, err := attributevalue.MarshalMap(u)
	require.NoError(t, err)

	fake := &fakeDynamo{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}}
	repo := NewDynamoRepository(fake, "users")

	got, err := repo.GetByID(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)

	require.NotNil(t, fake.queryIn)
	assert.Equal(t, UserIDIndexName, *fake.queryIn.IndexName)
}

func TestDynamoRepository_GetByID_IndexLag(t *testing.T) {
	// An empty query result right after a create is the documented
	// propagation window, surfaced as not-found.
	fake := &fakeDynamo{queryOut: &dynamodb.QueryOutput{}}
	repo := NewDynamoRepository(fake, "users")

	_, err := repo.GetByID(context.Background(), "fresh-id")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDynamoRepository_Update_Partial(t *testing.T) {
	u := newUser("id-1", "a@b.com")
	item, err := attributevalue.MarshalMap(u)
	require.NoError(t, err)

	updated := u.Clone()
	updated.FirstName = "Alice"
	updatedItem, err := attributevalue.MarshalMap(updated)
	require.NoError(t, err)

	fake := &fakeDynamo{
		queryOut:  &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}},
		updateOut: &dynamodb.UpdateItemOutput{Attributes: updatedItem},
	}
	repo := NewDynamoRepository(fake, "users")

	first := "Alice"
	got, err := repo.Update(context.Background(), "id-1", models.ProfileUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)

	require.NotNil(t, fake.updateIn)
	expr := *fake.updateIn.UpdateExpression
	assert.Contains(t, expr, "firstName = :firstName")
	assert.NotContains(t, expr, "lastName", "omitted field must not appear in the update expression")
	assert.Contains(t, expr, "updatedAt = :updatedAt")

	keyAttr, ok := fake.updateIn.Key["email"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", keyAttr.Value, "update is keyed by email resolved through the id index")
}

func TestDynamoRepository_Update_GoneBetweenCalls(t *testing.T) {
	u := newUser("id-1", "a@b.com")
	item, err := attributevalue.MarshalMap(u)
	require.NoError(t, err)

	fake := &fakeDynamo{
		queryOut:  &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}},
		updateErr: &types.ConditionalCheckFailedException{},
	}
	repo := NewDynamoRepository(fake, "users")

	first := "Alice"
	_, err = repo.Update(context.Background(), "id-1", models.ProfileUpdate{FirstName: &first})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
