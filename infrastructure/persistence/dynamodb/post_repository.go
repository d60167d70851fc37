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
	"ripple-backend/pkg/utils"
)

// postItem is the persisted shape of a post. Likes keep insertion order
// as a plain list; comments are embedded because they are bounded and
// always loaded with the post.
type postItem struct {
	PK         string        `dynamodbav:"PK"`
	SK         string        `dynamodbav:"SK"`
	GSI1PK     string        `dynamodbav:"GSI1PK"`
	GSI1SK     string        `dynamodbav:"GSI1SK"`
	EntityType string        `dynamodbav:"EntityType"`
	PostID     string        `dynamodbav:"PostID"`
	Author     string        `dynamodbav:"Author"`
	Content    string        `dynamodbav:"Content"`
	Visibility string        `dynamodbav:"Visibility"`
	Likes      []string      `dynamodbav:"Likes"`
	Comments   []commentItem `dynamodbav:"Comments"`
	CreatedAt  string        `dynamodbav:"CreatedAt"`
	UpdatedAt  string        `dynamodbav:"UpdatedAt"`
	Version    uint64        `dynamodbav:"Version"`
}

type commentItem struct {
	ID        string `dynamodbav:"ID"`
	Author    string `dynamodbav:"Author"`
	Content   string `dynamodbav:"Content"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

// PostRepository persists posts in DynamoDB. Posts live under the
// author's partition; the PostIndex GSI serves lookups by post ID.
type PostRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

func NewPostRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *PostRepository {
	return &PostRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger.Named("post-repository"),
	}
}

var _ ports.PostRepository = (*PostRepository)(nil)

func (r *PostRepository) Save(ctx context.Context, post *entities.Post) error {
	item, err := attributevalue.MarshalMap(toPostItem(post))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal post", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.Error("failed to save post",
			zap.String("post_id", post.ID().String()),
			zap.Error(err))
		return pkgerrors.NewDatabaseError("save post", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, postID valueobjects.PostID) (*entities.Post, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(postGSIPK(postID.String())))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build post lookup", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("lookup post", err)
	}
	if len(out.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("post not found")
	}
	return r.unmarshalPost(out.Items[0])
}

func (r *PostRepository) GetByAuthors(ctx context.Context, authors []valueobjects.UserID) ([]*entities.Post, error) {
	var posts []*entities.Post
	for _, author := range authors {
		authorPosts, err := r.queryAuthorPosts(ctx, author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, authorPosts...)
	}
	return posts, nil
}

func (r *PostRepository) queryAuthorPosts(ctx context.Context, author valueobjects.UserID) ([]*entities.Post, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(author.String()))).
		And(expression.Key("SK").BeginsWith(skPostPref))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build author post query", err)
	}

	var posts []*entities.Post
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
			return nil, pkgerrors.NewDatabaseError("query author posts", err)
		}
		for _, raw := range out.Items {
			post, err := r.unmarshalPost(raw)
			if err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}
	return posts, nil
}

func (r *PostRepository) GetPublic(ctx context.Context) ([]*entities.Post, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(entityTypePost)).
		And(expression.Name("Visibility").Equal(expression.Value(valueobjects.VisibilityPublic.String())))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build public post scan", err)
	}

	var posts []*entities.Post
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan public posts", err)
		}
		for _, raw := range out.Items {
			post, err := r.unmarshalPost(raw)
			if err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}
	return posts, nil
}

// updateRetries bounds the optimistic-lock retry loop. Collisions on one
// post are rare enough that exhausting the budget means real contention,
// which the caller sees as a Conflict.
const updateRetries = 3

func (r *PostRepository) Update(ctx context.Context, postID valueobjects.PostID, mutate func(*entities.Post) error) error {
	for attempt := 0; attempt < updateRetries; attempt++ {
		post, err := r.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		readVersion := post.Version()

		if err := mutate(post); err != nil {
			return err
		}

		item, err := attributevalue.MarshalMap(toPostItem(post))
		if err != nil {
			return pkgerrors.NewInternalError("failed to marshal post", err)
		}
		cond := expression.Name("Version").Equal(expression.Value(readVersion))
		expr, err := expression.NewBuilder().WithCondition(cond).Build()
		if err != nil {
			return pkgerrors.NewInternalError("failed to build post update condition", err)
		}

		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                 aws.String(r.tableName),
			Item:                      item,
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if err == nil {
			return nil
		}
		if !isConditionalFailure(err) {
			return pkgerrors.NewDatabaseError("update post", err)
		}
		r.logger.Debug("post update collided, retrying",
			zap.String("post_id", postID.String()),
			zap.Int("attempt", attempt+1))
	}
	return pkgerrors.NewConflictError("post was modified concurrently, retry the request")
}

func (r *PostRepository) Delete(ctx context.Context, postID valueobjects.PostID) error {
	post, err := r.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(post.Author().String())},
			"SK": &types.AttributeValueMemberS{Value: postSK(postID.String())},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("delete post", err)
	}
	return nil
}

func toPostItem(post *entities.Post) postItem {
	item := postItem{
		PK:         userPK(post.Author().String()),
		SK:         postSK(post.ID().String()),
		GSI1PK:     postGSIPK(post.ID().String()),
		GSI1SK:     gsiPostMetadata,
		EntityType: entityTypePost,
		PostID:     post.ID().String(),
		Author:     post.Author().String(),
		Content:    post.Content(),
		Visibility: post.Visibility().String(),
		CreatedAt:  post.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:  post.UpdatedAt().UTC().Format(time.RFC3339Nano),
		Version:    post.Version(),
	}
	for _, u := range post.Likes() {
		item.Likes = append(item.Likes, u.String())
	}
	for _, c := range post.Comments() {
		item.Comments = append(item.Comments, commentItem{
			ID:        c.ID,
			Author:    c.Author.String(),
			Content:   c.Content,
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return item
}

func (r *PostRepository) unmarshalPost(raw map[string]types.AttributeValue) (*entities.Post, error) {
	var item postItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal post", err)
	}

	postID, err := valueobjects.NewPostIDFromString(item.PostID)
	if err != nil {
		return nil, pkgerrors.NewInternalError("stored post has malformed id", err)
	}
	author, err := valueobjects.NewUserID(item.Author)
	if err != nil {
		return nil, pkgerrors.NewInternalError("stored post has malformed author", err)
	}
	visibility, err := valueobjects.ParseVisibility(item.Visibility)
	if err != nil {
		return nil, pkgerrors.NewInternalError("stored post has malformed visibility", err)
	}

	likes := make([]valueobjects.UserID, 0, len(item.Likes))
	for _, l := range item.Likes {
		id, err := valueobjects.NewUserID(l)
		if err != nil {
			r.logger.Warn("skipping malformed like entry", zap.String("post_id", item.PostID))
			continue
		}
		likes = append(likes, id)
	}

	comments := make([]entities.Comment, 0, len(item.Comments))
	for _, c := range item.Comments {
		author, err := valueobjects.NewUserID(c.Author)
		if err != nil {
			r.logger.Warn("skipping malformed comment entry", zap.String("post_id", item.PostID))
			continue
		}
		comments = append(comments, entities.Comment{
			ID:        c.ID,
			Author:    author,
			Content:   c.Content,
			CreatedAt: parseStoredTime(c.CreatedAt),
		})
	}

	return entities.ReconstructPost(
		postID,
		author,
		item.Content,
		visibility,
		likes,
		comments,
		parseStoredTime(item.CreatedAt),
		parseStoredTime(item.UpdatedAt),
		item.Version,
	), nil
}

func parseStoredTime(s string) time.Time {
	t, err := utils.ParseRFC3339(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
