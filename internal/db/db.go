package db

import (
	"context"
	"fmt"
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PuzzleDbClient struct {
	client           *mongo.Client
	PuzzleCollection *mongo.Collection
	SolveCollection  *mongo.Collection
}

func (r *PuzzleDbClient) Close() error {
	ctx, cancel := context.WithTimeout(context.TODO(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func NewDbClient(cfg *config.Configuration) (*PuzzleDbClient, error) {
	clientOpts := options.Client().ApplyURI(cfg.Database.Address)

	dbClient := &PuzzleDbClient{}

	ctx, cancel := context.WithTimeout(context.TODO(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	dbClient.client = client

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}

	database := client.Database(cfg.Database.DatabaseName)
	dbClient.PuzzleCollection = database.Collection(cfg.Database.PuzzleCollection)
	if dbClient.PuzzleCollection == nil {
		return nil, fmt.Errorf("can't resolve collection %s", cfg.Database.DatabaseName+"."+cfg.Database.PuzzleCollection)
	}
	dbClient.SolveCollection = database.Collection(cfg.Database.SolveCollection)
	if dbClient.SolveCollection == nil {
		return nil, fmt.Errorf("can't resolve collection %s", cfg.Database.DatabaseName+"."+cfg.Database.SolveCollection)
	}
	return dbClient, nil
}
