package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kairos-interview/backend/internal/domain/interview"
)

// MongoStore keeps one collection per session key, mirroring how the
// transcripts were laid out historically. Insertion order is preserved by
// the monotonic _id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ TranscriptStore = (*MongoStore)(nil)

const summariesCollection = "session_summaries"

type turnDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Seq      int                `bson:"seq"`
	Question string             `bson:"question"`
	Answer   *string            `bson:"answer"`
	Score    *int               `bson:"score"`
	Feedback *string            `bson:"feedback"`
	Skipped  bool               `bson:"skipped"`
	Topic    string             `bson:"topic"`
	Mode     string             `bson:"mode"`
	AskedAt  time.Time          `bson:"asked_at"`
}

// NewMongo connects to the given URI and pings the deployment before
// returning, so an unreachable store fails at startup instead of on the
// first turn.
func NewMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Append(ctx context.Context, sessionKey string, t *interview.Turn) (string, error) {
	res, err := s.db.Collection(sessionKey).InsertOne(ctx, docFromTurn(t))
	if err != nil {
		return "", fmt.Errorf("append turn: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *MongoStore) Update(ctx context.Context, sessionKey, turnID string, t *interview.Turn) error {
	oid, err := primitive.ObjectIDFromHex(turnID)
	if err != nil {
		return fmt.Errorf("invalid turn id %q: %w", turnID, err)
	}

	res, err := s.db.Collection(sessionKey).UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"answer":   t.Answer,
		"score":    t.Score,
		"feedback": t.Feedback,
		"skipped":  t.Skipped,
	}})
	if err != nil {
		return fmt.Errorf("update turn: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) LatestTurn(ctx context.Context, sessionKey string) (*interview.Turn, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var doc turnDoc
	err := s.db.Collection(sessionKey).FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toTurn(), nil
}

func (s *MongoStore) ListTurns(ctx context.Context, sessionKey string) ([]*interview.Turn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := s.db.Collection(sessionKey).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var turns []*interview.Turn
	for cur.Next(ctx) {
		var doc turnDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		turns = append(turns, doc.toTurn())
	}
	return turns, cur.Err()
}

func (s *MongoStore) SaveSummary(ctx context.Context, sessionKey string, sum *interview.Summary) error {
	_, err := s.db.Collection(summariesCollection).InsertOne(ctx, bson.M{
		"session_key":         sessionKey,
		"topic":               sum.Topic,
		"mode":                string(sum.Mode),
		"questions_attempted": sum.QuestionsAttempted,
		"questions_skipped":   sum.QuestionsSkipped,
		"average_score":       sum.AverageScore,
		"feedback":            sum.Feedback,
		"ended_at":            sum.EndedAt,
	})
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

func docFromTurn(t *interview.Turn) turnDoc {
	return turnDoc{
		Seq:      t.Seq,
		Question: t.Question,
		Answer:   t.Answer,
		Score:    t.Score,
		Feedback: t.Feedback,
		Skipped:  t.Skipped,
		Topic:    t.Topic,
		Mode:     string(t.Mode),
		AskedAt:  t.AskedAt,
	}
}

func (d turnDoc) toTurn() *interview.Turn {
	return &interview.Turn{
		Seq:      d.Seq,
		Question: d.Question,
		Answer:   d.Answer,
		Score:    d.Score,
		Feedback: d.Feedback,
		Skipped:  d.Skipped,
		Topic:    d.Topic,
		Mode:     interview.DifficultyMode(d.Mode),
		AskedAt:  d.AskedAt,
	}
}
