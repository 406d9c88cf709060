package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-report/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	reportsCollection = "reports"
	usersCollection   = "users"
)

// MongoStore is the hosted document-database backend. Unique indexes on
// reports.date and users.username back the upserts.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	s := &MongoStore{db: db}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) reports() *mongo.Collection { return s.db.Collection(reportsCollection) }
func (s *MongoStore) users() *mongo.Collection   { return s.db.Collection(usersCollection) }

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.reports().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("reports_by_date"),
	})
	if err != nil {
		return fmt.Errorf("create reports_by_date index: %w", err)
	}
	_, err = s.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_by_username"),
	})
	if err != nil {
		return fmt.Errorf("create users_by_username index: %w", err)
	}
	return nil
}

func (s *MongoStore) ListReports(ctx context.Context, limit int) ([]model.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.reports().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []model.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reports, nil
}

func (s *MongoStore) GetReport(ctx context.Context, date string) (*model.Report, error) {
	var r model.Report
	err := s.reports().FindOne(ctx, bson.M{"date": date}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find report %s: %w", date, err)
	}
	return &r, nil
}

// UpsertReport updates the matching document in place, keeping its _id, or
// inserts a new one.
func (s *MongoStore) UpsertReport(ctx context.Context, r model.Report) (*model.Report, error) {
	update := bson.M{"$set": bson.M{
		"date":       r.Date,
		"weekday":    r.Weekday,
		"content":    r.Content,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out model.Report
	err := s.reports().FindOneAndUpdate(ctx, bson.M{"date": r.Date}, update, opts).Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("upsert report %s: %w", r.Date, err)
	}
	return &out, nil
}

func (s *MongoStore) DeleteReport(ctx context.Context, date string) error {
	res, err := s.reports().DeleteOne(ctx, bson.M{"date": date})
	if err != nil {
		return fmt.Errorf("delete report %s: %w", date, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) SeedReport(ctx context.Context, r model.Report) error {
	update := bson.M{"$setOnInsert": bson.M{
		"date":       r.Date,
		"weekday":    r.Weekday,
		"content":    r.Content,
		"updated_at": time.Now(),
	}}
	_, err := s.reports().UpdateOne(ctx, bson.M{"date": r.Date}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("seed report %s: %w", r.Date, err)
	}
	return nil
}

func (s *MongoStore) GetUser(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.users().FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *MongoStore) SetPassword(ctx context.Context, username, hash string) error {
	res, err := s.users().UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) SeedUser(ctx context.Context, u model.User) error {
	update := bson.M{"$setOnInsert": bson.M{
		"username":      u.Username,
		"password_hash": u.Password,
		"updated_at":    time.Now(),
	}}
	_, err := s.users().UpdateOne(ctx, bson.M{"username": u.Username}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.db.Client().Disconnect(context.Background())
}
