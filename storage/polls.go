package storage

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/1abdulhaseeb/votely/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type PollStorage interface {
	Get(ctx context.Context, id string) (*Poll, error)
	GetAll(ctx context.Context, status PollStatus) ([]*Poll, error)
	Create(ctx context.Context, poll *Poll) error
	// UpdateStatus writes the new status only while the stored status still
	// equals from. A lost race surfaces as ErrStatusConflict.
	UpdateStatus(ctx context.Context, id string, from, to PollStatus) error
}

type DynamoPollStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoPollStorage) Get(ctx context.Context, id string) (*Poll, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("POLL: failed to marshal key for %s: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("POLL: GetItem for %s failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrPollNotFound
	}

	var poll Poll
	if err := attributevalue.UnmarshalMap(out.Item, &poll); err != nil {
		logging.Log.Errorf("POLL: failed to unmarshal poll: %v", err)
		return nil, err
	}
	return &poll, nil
}

func (s *DynamoPollStorage) GetAll(ctx context.Context, status PollStatus) ([]*Poll, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("POLL: scan failed: %v", err)
		return nil, err
	}

	var polls []*Poll
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &polls); err != nil {
		logging.Log.Errorf("POLL: failed to unmarshal poll list: %v", err)
		return nil, err
	}

	if status != "" {
		filtered := make([]*Poll, 0, len(polls))
		for _, p := range polls {
			if p.Status == status {
				filtered = append(filtered, p)
			}
		}
		polls = filtered
	}

	// Newest first, same order for everyone
	sort.SliceStable(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

func (s *DynamoPollStorage) Create(ctx context.Context, poll *Poll) error {
	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = time.Now().UTC()
	}
	poll.UpdatedAt = poll.CreatedAt
	poll.Status = PollStatusDraft

	item, err := attributevalue.MarshalMap(poll)
	if err != nil {
		logging.Log.Errorf("POLL: failed to marshal poll: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("POLL: poll with ID %s already exists", poll.ID)
			return ErrPollAlreadyExists
		}
		logging.Log.Errorf("POLL: failed to create poll: %v", err)
		return err
	}
	return nil
}

func (s *DynamoPollStorage) UpdateStatus(ctx context.Context, id string, from, to PollStatus) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET PollStatus = :to, UpdatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(PK) AND PollStatus = :from"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":   &types.AttributeValueMemberS{Value: string(to)},
			":from": &types.AttributeValueMemberS{Value: string(from)},
			":now":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	}
	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("POLL: status of %s changed underneath %s -> %s", id, from, to)
			return ErrStatusConflict
		}
		logging.Log.Errorf("POLL: failed to update status of %s: %v", id, err)
		return err
	}
	return nil
}
