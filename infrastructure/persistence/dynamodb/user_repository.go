package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ripple-backend/application/ports"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

type userItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	UserID       string `dynamodbav:"UserID"`
	Username     string `dynamodbav:"Username"`
	Name         string `dynamodbav:"Name"`
	Avatar       string `dynamodbav:"Avatar,omitempty"`
	Bio          string `dynamodbav:"Bio,omitempty"`
	LastActiveAt string `dynamodbav:"LastActiveAt,omitempty"`
}

// UserRepository reads user profiles from DynamoDB. Profiles are written
// by the account service; the only write we own is the last-active marker.
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

func NewUserRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger.Named("user-repository"),
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) GetByID(ctx context.Context, id valueobjects.UserID) (*entities.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: skProfile},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user not found")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal user", err)
	}
	return toUser(item)
}

func (r *UserRepository) GetSummaries(ctx context.Context, ids []valueobjects.UserID) ([]entities.UserSummary, error) {
	if len(ids) == 0 {
		return []entities.UserSummary{}, nil
	}

	// BatchGetItem caps at 100 keys per call
	summaries := make([]entities.UserSummary, 0, len(ids))
	for start := 0; start < len(ids); start += 100 {
		end := start + 100
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := r.batchGetSummaries(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, batch...)
	}
	return summaries, nil
}

func (r *UserRepository) batchGetSummaries(ctx context.Context, ids []valueobjects.UserID) ([]entities.UserSummary, error) {
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: skProfile},
		})
	}

	var summaries []entities.UserSummary
	request := map[string]types.KeysAndAttributes{
		r.tableName: {Keys: keys},
	}
	for len(request) > 0 {
		out, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: request,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("batch get users", err)
		}
		for _, raw := range out.Responses[r.tableName] {
			var item userItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal user", err)
			}
			user, err := toUser(item)
			if err != nil {
				r.logger.Warn("skipping malformed user item", zap.String("pk", item.PK))
				continue
			}
			summaries = append(summaries, user.Summary())
		}
		if len(out.UnprocessedKeys) == 0 {
			break
		}
		request = out.UnprocessedKeys
	}
	return summaries, nil
}

func (r *UserRepository) TouchLastActive(ctx context.Context, id valueobjects.UserID, at time.Time) error {
	update := expression.Set(expression.Name("LastActiveAt"), expression.Value(at.UTC().Format(time.RFC3339Nano)))
	cond := expression.AttributeExists(expression.Name("PK"))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build last-active update", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: skProfile},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalFailure(err) {
			return pkgerrors.NewNotFoundError("user not found")
		}
		return pkgerrors.NewDatabaseError("touch last active", err)
	}
	return nil
}

func toUser(item userItem) (*entities.User, error) {
	id, err := valueobjects.NewUserID(item.UserID)
	if err != nil {
		return nil, pkgerrors.NewInternalError("stored user has malformed id", err)
	}
	return &entities.User{
		ID:           id,
		Username:     item.Username,
		Name:         item.Name,
		Avatar:       item.Avatar,
		Bio:          item.Bio,
		LastActiveAt: parseStoredTime(item.LastActiveAt),
	}, nil
}
