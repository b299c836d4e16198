package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"ygo-duel-bot/internal/domain"
)

const (
	skSession   = "SESSION#"
	ttlDuration = 90 * 24 * time.Hour // idle users expire after 90 days
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client stores one session item per user in a DynamoDB table keyed by
// PK/SK. The session body is kept as a JSON string attribute.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

func userPK(userID string) string {
	return "USER#" + userID
}

func sessionKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
		"SK": &types.AttributeValueMemberS{Value: skSession},
	}
}

// Load reads the user's session. A missing item yields a fresh session.
func (c *Client) Load(ctx context.Context, userID string) (*domain.Session, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		Key:            sessionKey(userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: Load get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.NewSession(), nil
	}

	body, err := strAttr(out.Item, "session")
	if err != nil {
		return nil, fmt.Errorf("repository: Load: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		return nil, fmt.Errorf("repository: Load decode session: %w", err)
	}
	return &s, nil
}

// Save replaces the user's session item. Concurrent writers are last-write-wins.
func (c *Client) Save(ctx context.Context, userID string, s *domain.Session) error {
	if s == nil {
		return errors.New("repository: Save: session must not be nil")
	}
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("repository: Save encode session: %w", err)
	}

	now := c.now().UTC()
	item := sessionKey(userID)
	item["userId"] = &types.AttributeValueMemberS{Value: userID}
	item["session"] = &types.AttributeValueMemberS{Value: string(body)}
	item["decks"] = &types.AttributeValueMemberN{Value: strconv.Itoa(len(s.Decks))}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)}
	item["ttl"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(ttlDuration).Unix(), 10)}

	if _, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("repository: Save: %w", err)
	}
	return nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
