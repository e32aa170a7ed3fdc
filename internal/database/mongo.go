// Package database manages the MongoDB connection, collection access, and
// multi-document transactions.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shoestop/backend/config"
	"github.com/shoestop/backend/pkg/logger"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// Collection names used across repositories.
const (
	ColUsers      = "users"
	ColProducts   = "products"
	ColTrending   = "trending"
	ColMostSales  = "mostsales"
	ColFeatures   = "features"
	ColCarts      = "carts"
	ColOrders     = "orders"
	ColFailedJobs = "failed_jobs"
	ColLogs       = "logs"
)

// Connect establishes the MongoDB connection and verifies it with a ping.
// Call once at startup.
func Connect(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetMaxPoolSize(100).
		SetServerSelectionTimeout(10 * time.Second)

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}

	client = c
	db = c.Database(config.MongoDatabase())
	logger.Info("database: connected", "db", config.MongoDatabase())
	return nil
}

// Disconnect closes the connection. Call during graceful shutdown.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// DB returns the active database handle.
func DB() *mongo.Database {
	if db == nil {
		panic("database: Connect was not called")
	}
	return db
}

// Collection returns a handle to the named collection.
func Collection(name string) *mongo.Collection {
	return DB().Collection(name)
}

// Ping reports connection health, used by the /api/health endpoint.
func Ping(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("database: not connected")
	}
	return client.Ping(ctx, readpref.Primary())
}

// WithTransaction runs fn inside a MongoDB multi-document transaction.
// The callback's context must be used for every operation so reads and
// writes are bound to the session. Any error aborts the transaction.
//
// Requires a replica set (single-node replica sets work for development).
func WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if client == nil {
		return fmt.Errorf("database: not connected")
	}

	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("database: start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// IsDup reports whether err is a unique-index violation.
func IsDup(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
