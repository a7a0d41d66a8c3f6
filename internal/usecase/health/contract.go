package health

import (
	"context"

	"github.com/kailas-cloud/textdex"
)

// IndexStatter reports statistics for the active index.
type IndexStatter interface {
	CurrentIndexInfo(ctx context.Context) (textdex.IndexInfo, error)
}
