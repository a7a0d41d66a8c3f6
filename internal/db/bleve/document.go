package bleve

import (
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/document"
	index "github.com/blevesearch/bleve_index_api"

	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// allField is the composite field field-less queries run against.
const allField = "_all"

// buildDocument converts a record into a schemaless bleve document.
// Text values go through the active analyzer with term vectors; keyword and
// date values are single exact terms; numbers are numeric fields. Exact and
// numeric fields carry doc values so they can be sorted on.
func buildDocument(id string, r *record.Record, text, keyword analysis.Analyzer) *document.Document {
	doc := document.NewDocument(id)
	for _, f := range r.Fields() {
		base := index.IndexField
		if f.Store {
			base |= index.StoreField
		}
		switch v := f.Value.(type) {
		case record.Text:
			doc.AddField(document.NewTextFieldCustom(f.Name, nil, []byte(v),
				base|index.IncludeTermVectors, text))
		case record.Int32, record.Int64, record.Float32, record.Float64:
			n, _ := record.Float(v)
			doc.AddField(document.NewNumericFieldWithIndexingOptions(f.Name, nil, n,
				base|index.DocValues))
		default:
			doc.AddField(document.NewTextFieldCustom(f.Name, nil, []byte(v.String()),
				base|index.IncludeTermVectors|index.DocValues, keyword))
		}
	}
	if r.Type != "" {
		doc.AddField(document.NewTextFieldCustom(record.TypeField, nil, []byte(r.Type),
			index.IndexField|index.StoreField|index.DocValues, keyword))
	}
	doc.AddField(document.NewCompositeFieldWithIndexingOptions(allField, true, nil,
		[]string{record.TypeField}, index.IndexField|index.IncludeTermVectors))
	doc.AddIDField()
	return doc
}
