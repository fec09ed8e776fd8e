package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/internal/db"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("puzzle set not found")

// PuzzleSet is a stored group of puzzles shown together on one page.
type PuzzleSet struct {
	ID      string              `json:"id" bson:"_id"`
	Title   string              `json:"title" bson:"title"`
	Puzzles []puzzle.Definition `json:"puzzles" bson:"puzzles"`
	Created primitive.DateTime  `json:"created" bson:"created"`
}

// Solve records a puzzle solved in a widget session.
type Solve struct {
	SessionID string             `json:"session_id" bson:"session_id"`
	SetID     string             `json:"set_id,omitempty" bson:"set_id,omitempty"`
	Puzzle    int                `json:"puzzle" bson:"puzzle"`
	StartFEN  string             `json:"start_fen" bson:"start_fen"`
	FinalFEN  string             `json:"final_fen" bson:"final_fen"`
	Moves     string             `json:"moves" bson:"moves"`
	SolvedAt  primitive.DateTime `json:"solved_at" bson:"solved_at"`
}

type PuzzleRepository interface {
	GetPuzzleSet(id string) (PuzzleSet, error)

	GetRandomPuzzleSet() (PuzzleSet, error)

	InsertPuzzleSet(set PuzzleSet) error

	InsertSolve(solve Solve) error

	GetSolvesBetweenDates(startTime primitive.DateTime, endTime primitive.DateTime) ([]Solve, error)
}

type puzzleRepository struct {
	dbClient *db.PuzzleDbClient
}

func NewPuzzleRepository(dbClient *db.PuzzleDbClient) PuzzleRepository {
	return &puzzleRepository{dbClient}
}

func (p *puzzleRepository) GetPuzzleSet(id string) (PuzzleSet, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	var set PuzzleSet
	err := p.dbClient.PuzzleCollection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&set)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return PuzzleSet{}, ErrNotFound
	}
	if err != nil {
		return PuzzleSet{}, err
	}
	return set, nil
}

func (p *puzzleRepository) GetRandomPuzzleSet() (PuzzleSet, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	sampleStage := bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}}

	cursor, err := p.dbClient.PuzzleCollection.Aggregate(ctx, mongo.Pipeline{sampleStage})
	if err != nil {
		return PuzzleSet{}, err
	}

	var loaded []PuzzleSet
	if err = cursor.All(ctx, &loaded); err != nil {
		return PuzzleSet{}, err
	}
	if len(loaded) == 0 {
		return PuzzleSet{}, ErrNotFound
	}
	if len(loaded) != 1 {
		return PuzzleSet{}, fmt.Errorf("aggregate with $sample size 1 returned %d sets", len(loaded))
	}
	return loaded[0], nil
}

func (p *puzzleRepository) InsertPuzzleSet(set PuzzleSet) error {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	_, err := p.dbClient.PuzzleCollection.InsertOne(ctx, set)
	return err
}

func (p *puzzleRepository) InsertSolve(solve Solve) error {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	_, err := p.dbClient.SolveCollection.InsertOne(ctx, solve)
	return err
}

func (p *puzzleRepository) GetSolvesBetweenDates(startTime primitive.DateTime, endTime primitive.DateTime) ([]Solve, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	filter := bson.D{
		{
			Key: "solved_at", Value: bson.D{
				{Key: "$gte", Value: startTime},
				{Key: "$lte", Value: endTime},
			},
		},
	}

	cur, err := p.dbClient.SolveCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var solves []Solve
	if err = cur.All(ctx, &solves); err != nil {
		return nil, err
	}
	return solves, nil
}
