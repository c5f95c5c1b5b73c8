package api

import (
	"context"
	"fmt"
	"os"

	"github.com/1abdulhaseeb/votely/api/controllers"
	"github.com/1abdulhaseeb/votely/api/transport"
	"github.com/1abdulhaseeb/votely/logging"
	"github.com/1abdulhaseeb/votely/storage"
	"github.com/1abdulhaseeb/votely/voting"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	pollStorage, optionStorage, voteStorage := s.buildStorage()

	engine := voting.NewEngine(pollStorage, optionStorage, voteStorage)
	aggregator := voting.NewAggregator(pollStorage, optionStorage, voteStorage)

	//Register controllers
	pollsController := controllers.NewPollsController(engine, aggregator)
	pollsController.RegisterRoutes(r)
	votingController := controllers.NewVotingController(engine)
	votingController.RegisterRoutes(r)
	resultsController := controllers.NewResultsController(engine, aggregator)
	resultsController.RegisterRoutes(r)
	candidatesController := controllers.NewCandidatesController(engine, aggregator)
	candidatesController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

func (s *Server) buildStorage() (storage.PollStorage, storage.OptionStorage, storage.VoteStorage) {
	if s.config.Driver == "memory" {
		logging.Log.Info("Using in-memory storage")
		return storage.NewMemoryPollStorage(), storage.NewMemoryOptionStorage(), storage.NewMemoryVoteStorage()
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}
	dynamoClient := dynamodb.NewFromConfig(cfg)

	pollStorage := &storage.DynamoPollStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNamePolls,
	}
	optionStorage := &storage.DynamoOptionStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameOptions,
	}
	voteStorage := &storage.DynamoVoteStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameVotes,
	}
	return pollStorage, optionStorage, voteStorage
}

// startLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// startLocal starts a normal HTTP server
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
