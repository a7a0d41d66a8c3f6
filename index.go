package textdex

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/kailas-cloud/textdex/internal/db"
)

// TypedIndex maps T onto the engine's active index.
// The mapping is read from T's struct tags, or from RegisterSchema, once per
// engine and cached.
type TypedIndex[T any] struct {
	engine *Engine
	meta   *schemaMeta
	ptr    bool // T is *S
}

// NewIndex creates a typed index handle. T must be a struct or a pointer to
// a struct.
func NewIndex[T any](e *Engine) (*TypedIndex[T], error) {
	t := reflect.TypeFor[T]()
	ptr := t.Kind() == reflect.Pointer
	if ptr && t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("new index: %w: type %s is not a struct", ErrInvalidSchema, t)
	}
	meta, err := e.schemas.get(t)
	if err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}
	return &TypedIndex[T]{engine: e, meta: meta, ptr: ptr}, nil
}

// TypeName returns the type identity stored with every document of T.
func (idx *TypedIndex[T]) TypeName() string {
	return idx.meta.typeName
}

// Fields returns the field mapping of T.
func (idx *TypedIndex[T]) Fields() []FieldSpec {
	out := make([]FieldSpec, len(idx.meta.specs))
	copy(out, idx.meta.specs)
	return out
}

// Encode converts item into the record that would be indexed.
func (idx *TypedIndex[T]) Encode(item T) (*Record, error) {
	return idx.engine.codec.encode(idx.meta, item)
}

// Decode converts a record back into T.
func (idx *TypedIndex[T]) Decode(r *Record) (T, error) {
	var zero T
	p := reflect.New(idx.meta.typ)
	if err := idx.engine.codec.decode(idx.meta, r, p); err != nil {
		return zero, err
	}
	if idx.ptr {
		return p.Interface().(T), nil
	}
	return p.Elem().Interface().(T), nil
}

// CreateIndex adds items to the index. With recreate, every existing
// document is deleted and the deletion committed first. The first item that
// fails to encode aborts the whole batch; otherwise all items are flushed at
// once.
func (idx *TypedIndex[T]) CreateIndex(ctx context.Context, items []T, recreate bool) (err error) {
	defer func(start time.Time) { idx.engine.obs.observe(opCreateIndex, start, err) }(time.Now())

	err = idx.engine.write(ctx, func(w db.Writer) error {
		if recreate {
			if err := w.DeleteAll(); err != nil {
				return err
			}
			if err := w.Commit(); err != nil {
				return err
			}
		}
		for i, item := range items {
			if err := idx.add(w, item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return w.Flush()
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// DeleteByKey deletes every document whose exact field equals key.
// Deleting nothing is not an error.
func (idx *TypedIndex[T]) DeleteByKey(ctx context.Context, field, key string) error {
	return idx.DeleteByKeys(ctx, field, []string{key})
}

// DeleteByKeys deletes every document whose exact field equals one of keys.
// Blank keys are skipped.
func (idx *TypedIndex[T]) DeleteByKeys(ctx context.Context, field string, keys []string) error {
	return idx.engine.DeleteDocuments(ctx, field, keys)
}

// DeleteDocuments deletes every document, of any type, whose exact field
// equals one of keys. Blank keys are skipped and deleting nothing is not an
// error.
func (e *Engine) DeleteDocuments(ctx context.Context, field string, keys []string) (err error) {
	defer func(start time.Time) { e.obs.observe(opDelete, start, err) }(time.Now())

	if field == "" {
		return fmt.Errorf("delete: %w: empty field name", ErrInvalidArgument)
	}
	err = e.write(ctx, func(w db.Writer) error {
		for _, key := range keys {
			if strings.TrimSpace(key) == "" {
				continue
			}
			if err := w.DeleteTerm(field, key); err != nil {
				return err
			}
		}
		return w.Commit()
	})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// UpdateByKey replaces the documents whose exact field equals key with item.
// The delete and the insert are flushed together.
func (idx *TypedIndex[T]) UpdateByKey(ctx context.Context, field, key string, item T) (err error) {
	defer func(start time.Time) { idx.engine.obs.observe(opUpdate, start, err) }(time.Now())

	if field == "" {
		return fmt.Errorf("update: %w: empty field name", ErrInvalidArgument)
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("update: %w: empty key", ErrInvalidArgument)
	}
	err = idx.engine.write(ctx, func(w db.Writer) error {
		if err := w.DeleteTerm(field, key); err != nil {
			return err
		}
		if err := idx.add(w, item); err != nil {
			return err
		}
		return w.Flush()
	})
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

// UpdateBatch applies delete-then-insert per update, in order, and commits
// once. Updates with a blank field or key are skipped. An item that fails to
// encode aborts the batch.
func (idx *TypedIndex[T]) UpdateBatch(ctx context.Context, updates []Update[T]) (err error) {
	defer func(start time.Time) { idx.engine.obs.observe(opUpdateBatch, start, err) }(time.Now())

	err = idx.engine.write(ctx, func(w db.Writer) error {
		for i := range updates {
			u := &updates[i]
			if strings.TrimSpace(u.Field) == "" || strings.TrimSpace(u.Key) == "" {
				continue
			}
			if err := w.DeleteTerm(u.Field, u.Key); err != nil {
				return err
			}
			if err := idx.add(w, u.Item); err != nil {
				return fmt.Errorf("update %d: %w", i, err)
			}
		}
		return w.Commit()
	})
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

func (idx *TypedIndex[T]) add(w db.Writer, item T) error {
	r, err := idx.engine.codec.encode(idx.meta, item)
	if err != nil {
		return err
	}
	return w.Add(r)
}
