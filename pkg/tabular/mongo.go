package tabular

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lmeier/layermix/pkg/errors"
)

// mongoRow is one table row stored as a document. The row field keeps
// spreadsheet ordering; row 0 is the header.
type mongoRow struct {
	Row   int      `bson:"row"`
	Cells []string `bson:"cells"`
}

// MongoSource reads tables from MongoDB collections. Each logical
// table is a collection of {row, cells} documents.
type MongoSource struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoSource connects and verifies the deployment is reachable.
func NewMongoSource(ctx context.Context, uri, database string) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "mongodb at %s cannot be reached", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeSource, err, "mongodb at %s does not answer", uri)
	}
	return &MongoSource{client: client, db: client.Database(database)}, nil
}

func (s *MongoSource) Table(ctx context.Context, name string) ([][]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "collections cannot be listed")
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeTableNotFound, "table %q not found in database %s", name, s.db.Name())
	}

	cur, err := s.db.Collection(name).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "row", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "table %q cannot be queried", name)
	}
	defer cur.Close(ctx)

	var docs []mongoRow
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "table %q cannot be read", name)
	}
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, d.Cells)
	}
	return rows, nil
}

func (s *MongoSource) Close() error {
	return s.client.Disconnect(context.Background())
}
