package storage

import (
	"context"
	"errors"

	"github.com/1abdulhaseeb/votely/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type VoteStorage interface {
	// Create is a single conditional insert on (PK, SK). A second vote with
	// the same key fails with ErrVoteAlreadyExists instead of overwriting.
	Create(ctx context.Context, vote *Vote) error
	GetAll(ctx context.Context) ([]*Vote, error)
	GetByPoll(ctx context.Context, pollID string) ([]*Vote, error)
	GetByPollAndUser(ctx context.Context, pollID, userID string) ([]*Vote, error)
	CountByOption(ctx context.Context, pollID string) (map[int]int, error)
}

type DynamoVoteStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoVoteStorage) Create(ctx context.Context, vote *Vote) error {
	item, err := attributevalue.MarshalMap(vote)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to marshal vote: %v", err)
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("VOTE: duplicate vote rejected for poll %s key %s", vote.PollID, vote.SortKey)
			return ErrVoteAlreadyExists
		}
		logging.Log.Errorf("VOTE: failed to create vote: %v", err)
		return err
	}
	return nil
}

func (s *DynamoVoteStorage) GetAll(ctx context.Context) ([]*Vote, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("VOTE: scan failed: %v", err)
		return nil, err
	}

	var votes []*Vote
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &votes); err != nil {
		logging.Log.Errorf("VOTE: failed to unmarshal vote list: %v", err)
		return nil, err
	}
	return votes, nil
}

func (s *DynamoVoteStorage) GetByPoll(ctx context.Context, pollID string) ([]*Vote, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :poll"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":poll": &types.AttributeValueMemberS{Value: pollID},
		},
	})
	if err != nil {
		logging.Log.Errorf("VOTE: failed to query votes for poll %s: %v", pollID, err)
		return nil, err
	}

	var votes []*Vote
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &votes); err != nil {
		logging.Log.Errorf("VOTE: failed to unmarshal votes for poll %s: %v", pollID, err)
		return nil, err
	}
	return votes, nil
}

func (s *DynamoVoteStorage) GetByPollAndUser(ctx context.Context, pollID, userID string) ([]*Vote, error) {
	all, err := s.GetByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	votes := make([]*Vote, 0)
	for _, v := range all {
		if v.UserID == userID {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

func (s *DynamoVoteStorage) CountByOption(ctx context.Context, pollID string) (map[int]int, error) {
	votes, err := s.GetByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	for _, v := range votes {
		counts[v.OptionID]++
	}
	return counts, nil
}
