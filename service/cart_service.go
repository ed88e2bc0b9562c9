package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"iwingmobile-store/cart"
	"iwingmobile-store/models"
	"iwingmobile-store/repository"
	"iwingmobile-store/utils"
)

// CheckoutPlaceholderMessage is returned until a payment flow exists
const CheckoutPlaceholderMessage = "Checkout functionality coming soon!"

var (
	// ErrProductOutOfStock is returned when adding a product that cannot be bought
	ErrProductOutOfStock = errors.New("product is out of stock")
	// ErrEmptyCart is returned when checking out an empty cart
	ErrEmptyCart = errors.New("cart is empty")
	// ErrItemNotInCart is returned when changing a line the cart does not hold
	ErrItemNotInCart = errors.New("item not found in cart")
)

const (
	// DefaultSessionCacheSize bounds how many carts are kept in memory
	DefaultSessionCacheSize = 10000
	// DefaultSessionIdleTTL is how long an untouched cart stays in memory
	DefaultSessionIdleTTL = 30 * time.Minute
)

// sessionEntry is a cached cart and the last time it was used (unix nanos)
type sessionEntry struct {
	cart     *PersistentCart
	lastUsed atomic.Int64
}

// CartService manages one persistent cart per client session.
//
// Carts that are being changed are cached in a bounded LRU and dropped after
// sitting idle; a dropped cart is hydrated again from its slot on next use.
// Read-only requests for a session that is not cached read the slot directly
// and cache nothing.
type CartService struct {
	slots   repository.SlotRepositoryInterface
	catalog CatalogReader
	prefix  string
	log     *zap.Logger

	cacheSize int
	idleTTL   time.Duration
	now       func() time.Time

	sessions  *lru.Cache[string, *sessionEntry]
	hydrating singleflight.Group
}

// CartServiceOption configures a CartService
type CartServiceOption func(*CartService)

// WithSessionCache sets the cart cache capacity and idle TTL.
// Zero values keep the defaults; a negative TTL disables idle expiry.
func WithSessionCache(size int, idleTTL time.Duration) CartServiceOption {
	return func(s *CartService) {
		if size > 0 {
			s.cacheSize = size
		}
		if idleTTL != 0 {
			s.idleTTL = idleTTL
		}
	}
}

// NewCartService creates a new CartService.
// Carts are stored under "<prefix>:<session>".
func NewCartService(slots repository.SlotRepositoryInterface, catalog CatalogReader, prefix string, log *zap.Logger, opts ...CartServiceOption) *CartService {
	s := &CartService{
		slots:     slots,
		catalog:   catalog,
		prefix:    prefix,
		log:       log.With(zap.String("component", "cart_service")),
		cacheSize: DefaultSessionCacheSize,
		idleTTL:   DefaultSessionIdleTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// lru.New only fails for a non-positive size
	s.sessions, _ = lru.New[string, *sessionEntry](s.cacheSize)
	return s
}

// SlotKey returns the storage key of a session's cart
func (s *CartService) SlotKey(session string) string {
	return fmt.Sprintf("%s:%s", s.prefix, session)
}

// cached returns the session's cart if it is in memory and has not gone idle
func (s *CartService) cached(session string) (*PersistentCart, bool) {
	entry, ok := s.sessions.Get(session)
	if !ok {
		return nil, false
	}

	now := s.now()
	if s.idleTTL > 0 && now.Sub(time.Unix(0, entry.lastUsed.Load())) > s.idleTTL {
		s.sessions.Remove(session)
		s.log.Debug("🛒 session: Idle cart dropped", zap.String("session", session))
		return nil, false
	}
	entry.lastUsed.Store(now.UnixNano())
	return entry.cart, true
}

// session returns the session's cart for a mutation, hydrating it on first
// use. Concurrent first uses of one session share a single hydration, and
// hydrating one session never blocks another.
func (s *CartService) session(ctx context.Context, session string) *PersistentCart {
	if c, ok := s.cached(session); ok {
		return c
	}

	v, _, _ := s.hydrating.Do(session, func() (interface{}, error) {
		if c, ok := s.cached(session); ok {
			return c, nil
		}

		// a cancelled request must not hydrate the session as an empty cart
		c := NewPersistentCart(context.WithoutCancel(ctx), NewCartPersistence(s.slots, s.SlotKey(session), s.log))
		log := s.log.With(zap.String("session", session))
		c.Subscribe(func(st cart.State) {
			log.Debug("🛒 session: Cart changed", zap.Int("lines", st.Len()), zap.Int("itemCount", st.ItemCount()))
		})

		entry := &sessionEntry{cart: c}
		entry.lastUsed.Store(s.now().UnixNano())
		if s.sessions.Add(session, entry) {
			s.log.Debug("🛒 session: Cache full, least recently used cart dropped")
		}
		log.Debug("🛒 session: Cart hydrated", zap.Int("itemCount", c.ItemCount()))
		return c, nil
	})
	return v.(*PersistentCart)
}

// view returns the session's current state without caching the session
func (s *CartService) view(ctx context.Context, session string) cart.State {
	if c, ok := s.cached(session); ok {
		return c.State()
	}
	return NewCartPersistence(s.slots, s.SlotKey(session), s.log).Load(ctx)
}

// Cart returns the session's cart with derived totals
func (s *CartService) Cart(ctx context.Context, session string) models.CartResponse {
	return NewCartResponse(s.view(ctx, session))
}

// State returns the session's raw cart state
func (s *CartService) State(ctx context.Context, session string) cart.State {
	return s.view(ctx, session)
}

// AddProduct looks the product up in the catalog and adds it to the cart.
// Adding a product already in the cart increments its quantity.
func (s *CartService) AddProduct(ctx context.Context, session string, productType models.ProductType, productID string) (models.CartResponse, error) {
	product, err := s.catalog.GetProduct(ctx, productType, productID)
	if err != nil {
		return models.CartResponse{}, err
	}
	if !product.InStock {
		return models.CartResponse{}, ErrProductOutOfStock
	}

	state := s.session(ctx, session).AddItem(ctx, product.ToCartItem())
	s.log.Info("✅ AddProduct: Product added to cart",
		zap.String("session", session),
		zap.String("productId", product.ID),
		zap.Int("quantity", state.Quantity(product.ID)))
	return NewCartResponse(state), nil
}

// AddItem adds a prepared line item without a catalog lookup
func (s *CartService) AddItem(ctx context.Context, session string, item models.CartItem) models.CartResponse {
	return NewCartResponse(s.session(ctx, session).AddItem(ctx, item))
}

func (s *CartService) RemoveItem(ctx context.Context, session, id string) models.CartResponse {
	return NewCartResponse(s.session(ctx, session).RemoveItem(ctx, id))
}

// UpdateQuantity sets the quantity of a line in the cart; quantity <= 0
// removes the line. It returns ErrItemNotInCart when the line is absent.
func (s *CartService) UpdateQuantity(ctx context.Context, session, id string, quantity int) (models.CartResponse, error) {
	state, ok := s.session(ctx, session).UpdateExisting(ctx, id, quantity)
	if !ok {
		return models.CartResponse{}, ErrItemNotInCart
	}
	return NewCartResponse(state), nil
}

func (s *CartService) Clear(ctx context.Context, session string) models.CartResponse {
	return NewCartResponse(s.session(ctx, session).Clear(ctx))
}

func (s *CartService) GetItem(ctx context.Context, session, id string) (models.CartItem, bool) {
	return s.view(ctx, session).Find(id)
}

// Checkout acknowledges a checkout request without changing the cart
func (s *CartService) Checkout(ctx context.Context, session string) (models.CheckoutResponse, error) {
	state := s.view(ctx, session)
	if state.Len() == 0 {
		return models.CheckoutResponse{}, ErrEmptyCart
	}

	s.log.Info("🧾 Checkout: Placeholder checkout requested",
		zap.String("session", session),
		zap.Float64("total", state.Total()),
		zap.Int("itemCount", state.ItemCount()))

	return models.CheckoutResponse{
		Message:        CheckoutPlaceholderMessage,
		Total:          state.Total(),
		ItemCount:      state.ItemCount(),
		FormattedTotal: utils.FormatUSD(state.Total()),
	}, nil
}

// NewCartResponse builds the HTTP view of a cart state
func NewCartResponse(state cart.State) models.CartResponse {
	items := state.Clone().Items
	if items == nil {
		items = []models.CartItem{}
	}
	return models.CartResponse{
		Items:          items,
		Total:          state.Total(),
		ItemCount:      state.ItemCount(),
		FormattedTotal: utils.FormatUSD(state.Total()),
	}
}
