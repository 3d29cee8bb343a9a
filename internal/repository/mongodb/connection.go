package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const pingTimeout = 3 * time.Second

// Repository is the read-model store behind the API, mirrored from
// chain events. Disconnect closes the underlying connection.
type Repository struct {
	Disconnect func()

	client *mongo.Client
	logger *zap.Logger
}

func NewConnection(logger *zap.Logger, uri string) (Repository, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return Repository{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("mongo unreachable", zap.String("uri", uri))
		return Repository{}, err
	}

	return Repository{
		client: client,
		logger: logger,
		Disconnect: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("closing the mongo connection: " + err.Error())
			}
		},
	}, nil
}
