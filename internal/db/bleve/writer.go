package bleve

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// writer buffers changes in a bleve batch. Pending records are tracked by
// document ID so term deletes also hit documents added in the same batch.
type writer struct {
	ctx     context.Context
	store   *Store
	text    analysis.Analyzer
	keyword analysis.Analyzer
	batch   *bleve.Batch
	pending map[string]*record.Record
	lock    *flock.Flock
	closed  bool
}

var _ db.Writer = (*writer)(nil)

func (w *writer) check() error {
	if w.closed {
		return db.ErrWriterClosed
	}
	return nil
}

func (w *writer) Add(r *record.Record) error {
	if err := w.check(); err != nil {
		return err
	}
	id := uuid.NewString()
	if err := w.batch.IndexAdvanced(buildDocument(id, r, w.text, w.keyword)); err != nil {
		return &db.Error{Op: db.OpAdd, Err: err}
	}
	w.pending[id] = r
	return nil
}

func (w *writer) DeleteTerm(field, term string) error {
	if err := w.check(); err != nil {
		return err
	}
	for id, r := range w.pending {
		if v, ok := r.Lookup(field); ok && v.String() == term {
			w.batch.Delete(id)
			delete(w.pending, id)
		}
	}
	q := bleve.NewTermQuery(term)
	q.SetField(field)
	ids, err := w.store.matchIDs(w.ctx, q)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	for _, id := range ids {
		w.batch.Delete(id)
	}
	return nil
}

func (w *writer) DeleteAll() error {
	if err := w.check(); err != nil {
		return err
	}
	for id := range w.pending {
		w.batch.Delete(id)
	}
	clear(w.pending)
	ids, err := w.store.matchIDs(w.ctx, bleve.NewMatchAllQuery())
	if err != nil {
		return &db.Error{Op: db.OpDeleteAll, Err: err}
	}
	for _, id := range ids {
		w.batch.Delete(id)
	}
	return nil
}

// Flush applies the pending batch. Scorch persists applied batches, so a
// flushed change survives the writer.
func (w *writer) Flush() error {
	if err := w.check(); err != nil {
		return err
	}
	if w.batch.Size() == 0 {
		return nil
	}
	if err := w.store.idx.Batch(w.batch); err != nil {
		return &db.Error{Op: db.OpFlush, Err: fmt.Errorf("%d ops: %w", w.batch.Size(), err)}
	}
	w.batch.Reset()
	clear(w.pending)
	return nil
}

func (w *writer) Commit() error {
	return w.Flush()
}

// Rollback discards changes not yet flushed.
func (w *writer) Rollback() error {
	if err := w.check(); err != nil {
		return err
	}
	w.batch.Reset()
	clear(w.pending)
	return nil
}

func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if n := w.batch.Size(); n > 0 {
		w.store.logger.Debug("discarding unflushed changes",
			zap.String("path", w.store.path), zap.Int("ops", n))
		w.batch.Reset()
	}
	clear(w.pending)
	defer w.store.writeMu.Unlock()
	return w.store.lock.release(w.lock)
}
