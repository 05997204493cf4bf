package driver

import (
	"context"
)

// GraphDriver is the read interface this service needs from the graph store.
// Rows come back as plain key/value maps so callers can serialize them
// without depending on driver record types.
type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error)
	BuildSchema(ctx context.Context) error
	Close(ctx context.Context) error
}
