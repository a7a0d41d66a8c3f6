package chi

import (
	"context"

	"github.com/kailas-cloud/textdex"
	healthuc "github.com/kailas-cloud/textdex/internal/usecase/health"
)

// Engine is the part of textdex.Engine the HTTP API serves.
type Engine interface {
	SearchDocuments(
		ctx context.Context, req *textdex.SearchRequest, typ string, highlight ...string,
	) (*textdex.ResultSet[textdex.Document], error)
	DeleteDocuments(ctx context.Context, field string, keys []string) error
	Keywords(text string, opts textdex.KeywordOptions) ([]string, error)
	CurrentIndexInfo(ctx context.Context) (textdex.IndexInfo, error)
	IndexInfos(ctx context.Context) ([]textdex.IndexInfo, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
