package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"xanddash/config"
	"xanddash/models"
)

// MongoDBService persists network and per-node snapshots for the history
// endpoints. When MongoDB is disabled the service is a no-op and the history
// service falls back to its in-memory rings.
type MongoDBService struct {
	client  *mongo.Client
	db      *mongo.Database
	enabled bool
}

const (
	CollectionNetworkSnapshots = "network_snapshots"
	CollectionNodeSnapshots    = "node_snapshots"
)

func NewMongoDBService(cfg *config.Config) (*MongoDBService, error) {
	if !cfg.MongoDB.Enabled {
		log.Println("MongoDB is disabled in configuration")
		return &MongoDBService{enabled: false}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	svc := &MongoDBService{
		client:  client,
		db:      client.Database(cfg.MongoDB.Database),
		enabled: true,
	}

	if err := svc.createIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	log.Printf("✓ MongoDB connected to database: %s", cfg.MongoDB.Database)
	return svc, nil
}

func (m *MongoDBService) Enabled() bool {
	return m != nil && m.enabled
}

func (m *MongoDBService) createIndexes(ctx context.Context) error {
	_, err := m.db.Collection(CollectionNetworkSnapshots).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("timestamp_desc"),
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection(CollectionNodeSnapshots).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "node_id", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("node_timestamp"),
	})
	return err
}

func (m *MongoDBService) InsertNetworkSnapshot(ctx context.Context, snap *models.NetworkSnapshot) error {
	if !m.Enabled() {
		return nil
	}
	_, err := m.db.Collection(CollectionNetworkSnapshots).InsertOne(ctx, snap)
	return err
}

func (m *MongoDBService) InsertNodeSnapshots(ctx context.Context, snaps []models.NodeSnapshot) error {
	if !m.Enabled() || len(snaps) == 0 {
		return nil
	}

	docs := make([]interface{}, len(snaps))
	for i := range snaps {
		docs[i] = snaps[i]
	}
	_, err := m.db.Collection(CollectionNodeSnapshots).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

func (m *MongoDBService) GetNetworkSnapshotsRange(ctx context.Context, from, to time.Time) ([]models.NetworkSnapshot, error) {
	if !m.Enabled() {
		return nil, fmt.Errorf("mongodb disabled")
	}

	filter := bson.M{"timestamp": bson.M{"$gte": from, "$lte": to}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := m.db.Collection(CollectionNetworkSnapshots).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snaps []models.NetworkSnapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

func (m *MongoDBService) GetNodeSnapshotsRange(ctx context.Context, nodeID string, from, to time.Time) ([]models.NodeSnapshot, error) {
	if !m.Enabled() {
		return nil, fmt.Errorf("mongodb disabled")
	}

	filter := bson.M{
		"node_id":   nodeID,
		"timestamp": bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := m.db.Collection(CollectionNodeSnapshots).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snaps []models.NodeSnapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

func (m *MongoDBService) Close(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}
	return m.client.Disconnect(ctx)
}
