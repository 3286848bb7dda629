package users

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/viktorkr/authapp/internal/common"
	"github.com/viktorkr/authapp/internal/server/models"
)

// UserIDIndexName is the global secondary index serving GetByID. GSI reads
// are eventually consistent with table writes; callers tolerate the brief
// propagation window after Create.
const UserIDIndexName = "UserIdIndex"

// dynamoAPI is the slice of the DynamoDB client the repository uses. Tests
// provide a fake; production passes *dynamodb.Client.
type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoRepository stores credential records in a DynamoDB table whose
// partition key is the normalized email, with the UserIdIndex GSI for id
// lookups. Uniqueness is a conditional PutItem, decided by DynamoDB itself.
type DynamoRepository struct {
	api   dynamoAPI
	table string
}

func NewDynamoRepository(api dynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{api: api, table: table}
}

// DynamoSettings carries everything needed to build a DynamoDB client.
// BaseEndpoint is only set for local stacks (dynamodb-local, LocalStack);
// AccessKey/SecretKey fall back to the ambient AWS credential chain when
// empty.
type DynamoSettings struct {
	Table        string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// NewDynamoClient builds a *dynamodb.Client from the given settings.
func NewDynamoClient(ctx context.Context, s DynamoSettings) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.Region),
	}
	if s.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
		}
	})

	return client, nil
}

func (r *DynamoRepository) Create(ctx context.Context, user *models.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return err
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return common.ErrEmailTaken
		}
		return storeErr(err)
	}

	return nil
}

func (r *DynamoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, storeErr(err)
	}
	if out.Item == nil {
		return nil, common.ErrorNotFound
	}

	user := &models.User{}
	if err := attributevalue.UnmarshalMap(out.Item, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	out, err := r.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(UserIDIndexName),
		KeyConditionExpression: aws.String("#id = :id"),
		// "id" is a DynamoDB reserved word
		ExpressionAttributeNames: map[string]string{"#id": "id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: id},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, storeErr(err)
	}
	if len(out.Items) == 0 {
		return nil, common.ErrorNotFound
	}

	user := &models.User{}
	if err := attributevalue.UnmarshalMap(out.Items[0], user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *DynamoRepository) Update(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	// The table key is email, so resolve the record through the id index
	// first. A record deleted between the two calls fails the
	// attribute_exists guard below.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sets := []string{"updatedAt = :updatedAt"}
	values := map[string]types.AttributeValue{}

	now, err := attributevalue.Marshal(nowFn())
	if err != nil {
		return nil, err
	}
	values[":updatedAt"] = now

	if upd.FirstName != nil {
		sets = append(sets, "firstName = :firstName")
		values[":firstName"] = &types.AttributeValueMemberS{Value: *upd.FirstName}
	}
	if upd.LastName != nil {
		sets = append(sets, "lastName = :lastName")
		values[":lastName"] = &types.AttributeValueMemberS{Value: *upd.LastName}
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: current.Email},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(email)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, common.ErrorNotFound
		}
		return nil, storeErr(err)
	}

	user := &models.User{}
	if err := attributevalue.UnmarshalMap(out.Attributes, user); err != nil {
		return nil, err
	}
	return user, nil
}
