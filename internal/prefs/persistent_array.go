package prefs

import "context"

// PersistentArray is a write-through Array bound to one store key: every
// mutating call re-serializes and persists, so the in-memory list and the
// stored value cannot drift apart. Slower than batching, but callers cannot
// forget to flush.
type PersistentArray[T any] struct {
	arr   *Array[T]
	store Store
	key   string
}

// NewPersistentArray loads the current value of key and binds the array to it.
func NewPersistentArray[T any](ctx context.Context, store Store, key, delim string, fns ElementFuncs[T]) (*PersistentArray[T], error) {
	encoded, err := store.GetString(ctx, key, "")
	if err != nil {
		return nil, err
	}
	arr := NewArray(delim, fns)
	if err := arr.Decode(encoded); err != nil {
		return nil, err
	}
	return &PersistentArray[T]{arr: arr, store: store, key: key}, nil
}

func (p *PersistentArray[T]) Len() int { return p.arr.Len() }

func (p *PersistentArray[T]) At(i int) T { return p.arr.At(i) }

func (p *PersistentArray[T]) Items() []T { return p.arr.Items() }

func (p *PersistentArray[T]) Add(ctx context.Context, v T) error {
	p.arr.Add(v)
	return p.flush(ctx)
}

func (p *PersistentArray[T]) Insert(ctx context.Context, i int, v T) error {
	p.arr.Insert(i, v)
	return p.flush(ctx)
}

func (p *PersistentArray[T]) RemoveAt(ctx context.Context, i int) error {
	p.arr.RemoveAt(i)
	return p.flush(ctx)
}

func (p *PersistentArray[T]) flush(ctx context.Context) error {
	encoded, present, err := p.arr.Encode()
	if err != nil {
		return err
	}
	if !present {
		return p.store.Remove(ctx, p.key)
	}
	return p.store.PutString(ctx, p.key, encoded)
}
