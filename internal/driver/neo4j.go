package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/openscholar/papergraph/pkg/logger"
)

// Neo4jDriver wraps the official driver with a per-query timeout and row cap
// so one runaway generated query cannot pin the service.
type Neo4jDriver struct {
	Driver  neo4j.DriverWithContext
	Timeout time.Duration
	RowCap  int
}

func NewNeo4jDriver(uri, username, password string, timeout time.Duration, rowCap int) (*Neo4jDriver, error) {
	d, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := d.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	logger.Info().Str("uri", uri).Msg("connected to Neo4j")
	return &Neo4jDriver{Driver: d, Timeout: timeout, RowCap: rowCap}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, record.AsMap())
		if d.RowCap > 0 && len(rows) >= d.RowCap {
			break
		}
	}
	return rows, nil
}

// BuildSchema creates constraints and indexes for the paper graph. Failures
// are logged and skipped since most mean the index already exists.
func (d *Neo4jDriver) BuildSchema(ctx context.Context) error {
	queries := []string{
		"CREATE CONSTRAINT paper_id IF NOT EXISTS FOR (p:Paper) REQUIRE p.id IS UNIQUE",
		"CREATE CONSTRAINT author_id IF NOT EXISTS FOR (a:Author) REQUIRE a.authorid IS UNIQUE",
		"CREATE CONSTRAINT review_id IF NOT EXISTS FOR (r:Review) REQUIRE r.id IS UNIQUE",
		"CREATE CONSTRAINT keyword_name IF NOT EXISTS FOR (k:Keyword) REQUIRE k.name IS UNIQUE",

		"CREATE INDEX paper_status IF NOT EXISTS FOR (p:Paper) ON (p.status)",
		"CREATE INDEX paper_conference IF NOT EXISTS FOR (p:Paper) ON (p.conference)",
		"CREATE INDEX review_type IF NOT EXISTS FOR (r:Review) ON (r.review_type)",
		"CREATE INDEX review_rating IF NOT EXISTS FOR (r:Review) ON (r.rating)",
		"CREATE INDEX author_name IF NOT EXISTS FOR (a:Author) ON (a.name)",
	}

	for _, q := range queries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			logger.Warn().Err(err).Str("query", q).Msg("schema statement failed")
		}
	}

	return nil
}
