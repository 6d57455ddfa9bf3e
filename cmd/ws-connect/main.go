// Package main implements the WebSocket connect/disconnect Lambda handler.
// Connect requests authenticate with a JWT and register the connection so
// the reminder sink can reach the account's devices.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"medremind-backend/application/ports"
	"medremind-backend/infrastructure/config"
	"medremind-backend/infrastructure/persistence/dynamodb"
	"medremind-backend/pkg/auth"
)

var (
	connections ports.ConnectionRepository
	validator   *auth.JWTValidator
	logger      *zap.Logger
)

func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err = zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	client := awsdynamodb.NewFromConfig(awsCfg)
	connections = dynamodb.NewConnectionRepository(client, cfg.ConnectionsTable, logger)

	secret := cfg.JWTSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	validator, err = auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
	if err != nil {
		log.Fatalf("Failed to create JWT validator: %v", err)
	}

	log.Println("WebSocket connect handler initialized")
}

func handler(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$disconnect":
		return handleDisconnect(ctx, request)
	default:
		return handleConnect(ctx, request)
	}
}

func handleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	token := request.QueryStringParameters["token"]
	if token == "" {
		token = request.Headers["Authorization"]
	}

	claims, err := validator.ValidateToken(token)
	if err != nil {
		logger.Warn("Rejected WebSocket connection",
			zap.String("connectionID", request.RequestContext.ConnectionID),
			zap.Error(err),
		)
		return events.APIGatewayProxyResponse{StatusCode: 401, Body: "Unauthorized"}, nil
	}

	conn := ports.Connection{
		ConnectionID: request.RequestContext.ConnectionID,
		Email:        claims.Email,
		Endpoint:     request.RequestContext.DomainName + "/" + request.RequestContext.Stage,
		ConnectedAt:  time.Now(),
	}

	if err := connections.Save(ctx, conn); err != nil {
		logger.Error("Failed to store connection", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: 500, Body: "Internal error"}, nil
	}

	logger.Info("Connection registered",
		zap.String("connectionID", conn.ConnectionID),
		zap.String("email", conn.Email),
	)
	return events.APIGatewayProxyResponse{StatusCode: 200, Body: "Connected"}, nil
}

func handleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := connections.Delete(ctx, request.RequestContext.ConnectionID); err != nil {
		logger.Warn("Failed to remove connection",
			zap.String("connectionID", request.RequestContext.ConnectionID),
			zap.Error(err),
		)
	}
	return events.APIGatewayProxyResponse{StatusCode: 200, Body: "Disconnected"}, nil
}

func main() {
	lambda.Start(handler)
}
