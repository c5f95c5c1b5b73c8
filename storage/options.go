package storage

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/1abdulhaseeb/votely/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type OptionStorage interface {
	Get(ctx context.Context, pollID string, optionID int) (*PollOption, error)
	GetByPoll(ctx context.Context, pollID string) ([]*PollOption, error)
	GetByCandidate(ctx context.Context, candidateID string) ([]*PollOption, error)
	Create(ctx context.Context, option *PollOption) error
}

type DynamoOptionStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoOptionStorage) Get(ctx context.Context, pollID string, optionID int) (*PollOption, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pollID},
			"SK": &types.AttributeValueMemberN{Value: strconv.Itoa(optionID)},
		},
	})
	if err != nil {
		logging.Log.Errorf("OPTION: GetItem for poll %s option %d failed: %v", pollID, optionID, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrOptionNotFound
	}

	var option PollOption
	if err := attributevalue.UnmarshalMap(out.Item, &option); err != nil {
		logging.Log.Errorf("OPTION: failed to unmarshal option: %v", err)
		return nil, err
	}
	return &option, nil
}

func (s *DynamoOptionStorage) GetByPoll(ctx context.Context, pollID string) ([]*PollOption, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :poll"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":poll": &types.AttributeValueMemberS{Value: pollID},
		},
	})
	if err != nil {
		logging.Log.Errorf("OPTION: failed to query options for poll %s: %v", pollID, err)
		return nil, err
	}

	var options []*PollOption
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &options); err != nil {
		logging.Log.Errorf("OPTION: failed to unmarshal option list: %v", err)
		return nil, err
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].ID < options[j].ID
	})
	return options, nil
}

func (s *DynamoOptionStorage) GetByCandidate(ctx context.Context, candidateID string) ([]*PollOption, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("OPTION: scan failed: %v", err)
		return nil, err
	}

	var all []*PollOption
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &all); err != nil {
		logging.Log.Errorf("OPTION: failed to unmarshal option list: %v", err)
		return nil, err
	}

	filtered := make([]*PollOption, 0)
	for _, option := range all {
		if option.CandidateID != "" && option.CandidateID == candidateID {
			filtered = append(filtered, option)
		}
	}
	return filtered, nil
}

func (s *DynamoOptionStorage) Create(ctx context.Context, option *PollOption) error {
	if option.CreatedAt.IsZero() {
		option.CreatedAt = time.Now().UTC()
	}
	item, err := attributevalue.MarshalMap(option)
	if err != nil {
		logging.Log.Errorf("OPTION: failed to marshal option: %v", err)
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
			logging.Log.Warnf("OPTION: option %d already exists on poll %s", option.ID, option.PollID)
			return ErrOptionAlreadyExists
		}
		logging.Log.Errorf("OPTION: failed to create option: %v", err)
		return err
	}
	return nil
}
