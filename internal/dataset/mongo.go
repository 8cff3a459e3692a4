package dataset

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sells-group/l1-pricing/internal/model"
	"github.com/sells-group/l1-pricing/internal/resilience"
)

const mongoTimeout = 30 * time.Second

// MongoSource reads datasets from the bids and tender_quantities
// collections, ordered by row.
type MongoSource struct {
	bids       *mongo.Collection
	quantities *mongo.Collection
	name       string
}

// NewMongoSource reads from database dbName on client.
func NewMongoSource(client *mongo.Client, dbName string) *MongoSource {
	db := client.Database(dbName)
	return &MongoSource{
		bids:       db.Collection(BidsTable),
		quantities: db.Collection(QuantitiesTable),
		name:       dbName,
	}
}

// ConnectMongo dials uri and pings the primary, retrying network failures.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, eris.Wrap(err, "mongo: connect")
	}

	policy := resilience.ConnectPolicy("mongo")
	policy.Retryable = mongoRetryable
	if _, err := resilience.Retry(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, client.Ping(ctx, nil)
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, eris.Wrap(err, "mongo: ping")
	}
	return client, nil
}

func mongoRetryable(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err) || resilience.IsTransient(err)
}

func (m *MongoSource) Describe() string {
	return "mongo:" + m.name
}

func (m *MongoSource) Bids(ctx context.Context) ([]model.BidRecord, error) {
	var bids []model.BidRecord
	if err := findAll(ctx, m.bids, &bids); err != nil {
		return nil, unavailable(m.Describe(), Financial, err)
	}
	return bids, nil
}

func (m *MongoSource) Basic(ctx context.Context) ([]model.BasicRecord, error) {
	var basic []model.BasicRecord
	if err := findAll(ctx, m.quantities, &basic); err != nil {
		return nil, unavailable(m.Describe(), Basic, err)
	}
	return basic, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, out any) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "row", Value: 1}})
	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return eris.Wrapf(err, "mongo: find %s", coll.Name())
	}
	if err := cur.All(ctx, out); err != nil {
		return eris.Wrapf(err, "mongo: decode %s", coll.Name())
	}
	return nil
}
