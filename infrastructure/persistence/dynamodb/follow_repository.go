package dynamodb

import (
	"context"
	"errors"
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

// followItem is one side of a follow edge. Every edge is stored twice,
// once under each user's partition, and both sides are written in a
// single transaction so readers never observe a half-created edge.
type followItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Follower   string `dynamodbav:"Follower"`
	Followee   string `dynamodbav:"Followee"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

// FollowRepository persists follow edges in DynamoDB.
type FollowRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

func NewFollowRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *FollowRepository {
	return &FollowRepository{
		client:    client,
		tableName: tableName,
		logger:    logger.Named("follow-repository"),
	}
}

var _ ports.FollowRepository = (*FollowRepository)(nil)

func (r *FollowRepository) CreateEdge(ctx context.Context, edge entities.FollowEdge) error {
	createdAt := edge.CreatedAt.UTC().Format(time.RFC3339Nano)
	follower := edge.Follower.String()
	followee := edge.Followee.String()

	forward := followItem{
		PK:         userPK(follower),
		SK:         followingSK(followee),
		EntityType: entityTypeFollow,
		Follower:   follower,
		Followee:   followee,
		CreatedAt:  createdAt,
	}
	reverse := followItem{
		PK:         userPK(followee),
		SK:         followerSK(follower),
		EntityType: entityTypeFollow,
		Follower:   follower,
		Followee:   followee,
		CreatedAt:  createdAt,
	}

	forwardAV, err := attributevalue.MarshalMap(forward)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal follow edge", err)
	}
	reverseAV, err := attributevalue.MarshalMap(reverse)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal follow edge", err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                forwardAV,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                reverseAV,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
		},
	})
	if err != nil {
		if isConditionalFailure(err) {
			return pkgerrors.NewConflictError("already following this user")
		}
		r.logger.Error("failed to create follow edge",
			zap.String("follower", follower),
			zap.String("followee", followee),
			zap.Error(err))
		return pkgerrors.NewDatabaseError("create follow edge", err)
	}
	return nil
}

func (r *FollowRepository) DeleteEdge(ctx context.Context, follower, followee valueobjects.UserID) error {
	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Delete: &types.Delete{
					TableName:           aws.String(r.tableName),
					Key:                 edgeKey(userPK(follower.String()), followingSK(followee.String())),
					ConditionExpression: aws.String("attribute_exists(PK)"),
				},
			},
			{
				Delete: &types.Delete{
					TableName:           aws.String(r.tableName),
					Key:                 edgeKey(userPK(followee.String()), followerSK(follower.String())),
					ConditionExpression: aws.String("attribute_exists(PK)"),
				},
			},
		},
	})
	if err != nil {
		if isConditionalFailure(err) {
			return pkgerrors.NewConflictError("not following this user")
		}
		r.logger.Error("failed to delete follow edge",
			zap.String("follower", follower.String()),
			zap.String("followee", followee.String()),
			zap.Error(err))
		return pkgerrors.NewDatabaseError("delete follow edge", err)
	}
	return nil
}

func (r *FollowRepository) EdgeExists(ctx context.Context, follower, followee valueobjects.UserID) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       edgeKey(userPK(follower.String()), followingSK(followee.String())),
	})
	if err != nil {
		return false, pkgerrors.NewDatabaseError("check follow edge", err)
	}
	return out.Item != nil, nil
}

func (r *FollowRepository) FollowersOf(ctx context.Context, userID valueobjects.UserID) ([]valueobjects.UserID, error) {
	return r.queryEdges(ctx, userID, skFollowerPref, func(item followItem) string { return item.Follower })
}

func (r *FollowRepository) FollowingOf(ctx context.Context, userID valueobjects.UserID) ([]valueobjects.UserID, error) {
	return r.queryEdges(ctx, userID, skFollowingPref, func(item followItem) string { return item.Followee })
}

func (r *FollowRepository) queryEdges(ctx context.Context, userID valueobjects.UserID, skPrefix string, pick func(followItem) string) ([]valueobjects.UserID, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID.String()))).
		And(expression.Key("SK").BeginsWith(skPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build edge query", err)
	}

	var ids []valueobjects.UserID
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query follow edges", err)
		}
		for _, raw := range out.Items {
			var item followItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal follow edge", err)
			}
			id, err := valueobjects.NewUserID(pick(item))
			if err != nil {
				r.logger.Warn("skipping edge with malformed user id", zap.String("pk", item.PK), zap.String("sk", item.SK))
				continue
			}
			ids = append(ids, id)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}
	return ids, nil
}

func edgeKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// isConditionalFailure reports whether a write failed because a
// condition expression did not hold, either on a plain write or on
// any item inside a transaction.
func isConditionalFailure(err error) bool {
	var condFailed *types.ConditionalCheckFailedException
	if errors.As(err, &condFailed) {
		return true
	}
	var txCanceled *types.TransactionCanceledException
	if errors.As(err, &txCanceled) {
		for _, reason := range txCanceled.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}
