package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"iwingmobile-store/cart"
	"iwingmobile-store/repository"
)

// CartPersistence loads and saves one cart snapshot in one named slot.
// It never fails the caller: read problems degrade to an empty cart and
// write problems are logged.
type CartPersistence struct {
	slots repository.SlotRepositoryInterface
	key   string
	log   *zap.Logger
}

// NewCartPersistence creates a CartPersistence bound to key
func NewCartPersistence(slots repository.SlotRepositoryInterface, key string, log *zap.Logger) *CartPersistence {
	return &CartPersistence{
		slots: slots,
		key:   key,
		log:   log.With(zap.String("component", "cart_persistence"), zap.String("slot", key)),
	}
}

// Key returns the slot key this persistence writes to
func (p *CartPersistence) Key() string {
	return p.key
}

// Load returns the stored cart, or an empty cart when nothing usable is stored.
// A corrupt snapshot is discarded so the next save starts clean.
func (p *CartPersistence) Load(ctx context.Context) cart.State {
	data, err := p.slots.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			p.log.Debug("📭 Load: No stored cart, starting empty")
			return cart.Empty()
		}
		p.log.Error("❌ Load: Error reading cart slot", zap.Error(err))
		return cart.Empty()
	}

	state, err := cart.Decode(data)
	if err != nil {
		p.log.Warn("⚠️  Load: Discarding unreadable cart snapshot", zap.Error(err), zap.Int("bytes", len(data)))
		if delErr := p.slots.Delete(ctx, p.key); delErr != nil {
			p.log.Error("❌ Load: Error deleting corrupt cart slot", zap.Error(delErr))
		}
		return cart.Empty()
	}

	p.log.Debug("✅ Load: Cart restored", zap.Int("lines", state.Len()), zap.Int("itemCount", state.ItemCount()))
	return state
}

// Save overwrites the slot with s. Failures are logged and swallowed.
func (p *CartPersistence) Save(ctx context.Context, s cart.State) {
	data, err := cart.Encode(s)
	if err != nil {
		p.log.Error("❌ Save: Error encoding cart", zap.Error(err))
		return
	}

	if err := p.slots.Put(ctx, p.key, data); err != nil {
		p.log.Error("❌ Save: Error writing cart slot", zap.Error(err))
		return
	}

	p.log.Debug("💾 Save: Cart stored", zap.Int("lines", s.Len()), zap.Int("itemCount", s.ItemCount()))
}
