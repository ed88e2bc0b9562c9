package service

import (
	"context"
	"errors"
	"sync"

	"iwingmobile-store/models"
	"iwingmobile-store/repository"
)

var errStorageDown = errors.New("storage down")

// flakySlots wraps a memory slot store and can be told to fail reads or writes
type flakySlots struct {
	*repository.MemorySlotRepository

	mu        sync.Mutex
	failGet   bool
	failPut   bool
	gets      int
	puts      int
	deletions []string
}

func newFlakySlots() *flakySlots {
	return &flakySlots{MemorySlotRepository: repository.NewMemorySlotRepository()}
}

func (f *flakySlots) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	f.gets++
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, errStorageDown
	}
	return f.MemorySlotRepository.Get(ctx, key)
}

func (f *flakySlots) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.puts++
	fail := f.failPut
	f.mu.Unlock()
	if fail {
		return errStorageDown
	}
	// behave like a network store: a cancelled context aborts the write
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.MemorySlotRepository.Put(ctx, key, value)
}

func (f *flakySlots) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	f.deletions = append(f.deletions, key)
	f.mu.Unlock()
	return f.MemorySlotRepository.Delete(ctx, key)
}

func (f *flakySlots) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

func (f *flakySlots) setFailPut(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPut = v
}

func lineItem(id string, price float64) models.CartItem {
	return models.CartItem{
		ID:     id,
		Name:   "Product " + id,
		Brand:  "Brand",
		Price:  price,
		Images: []models.ProductImage{{URL: "https://cdn.example.com/" + id + ".jpg", Alt: id, IsPrimary: true}},
	}
}

// blockingSlots holds every read of one key until released
type blockingSlots struct {
	*repository.MemorySlotRepository

	key     string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingSlots(key string) *blockingSlots {
	return &blockingSlots{
		MemorySlotRepository: repository.NewMemorySlotRepository(),
		key:                  key,
		entered:              make(chan struct{}),
		release:              make(chan struct{}),
	}
}

func (b *blockingSlots) Get(ctx context.Context, key string) ([]byte, error) {
	if key == b.key {
		b.once.Do(func() { close(b.entered) })
		<-b.release
	}
	return b.MemorySlotRepository.Get(ctx, key)
}
