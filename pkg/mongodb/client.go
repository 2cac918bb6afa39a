package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Client represents a MongoDB client
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient creates a new MongoDB client
func NewClient(uri string) (*Client, error) {
	// Create client options
	clientOptions := options.Client().ApplyURI(uri)

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		return nil, err
	}

	// Check the connection
	err = client.Ping(context.Background(), nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: client,
	}, nil
}

// Database returns a database
func (c *Client) Database(name string) *mongo.Database {
	if c.db == nil || c.db.Name() != name {
		c.db = c.client.Database(name)
	}
	return c.db
}

// WithTransaction runs fn inside a multi-document transaction. Every write fn
// performs through the returned context commits together or not at all;
// returning an error rolls back all of them. Transient conflicts are retried
// by the driver, re-running fn against fresh state.
func (c *Client) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := c.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	}, opts)
	return err
}

// Disconnect disconnects from MongoDB
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
