package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"

	"github.com/google/uuid"
)

// CartStore contract interface
type CartStore interface {
	Get(ctx context.Context, id string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, id string) error
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
}

const maxQuantity = 20

type cartService struct {
	store       CartStore
	productRepo ProductRepository
	shopBaseURL string
	now         func() time.Time
}

func NewCartService(store CartStore, productRepo ProductRepository, shopBaseURL string) *cartService {
	return &cartService{
		store:       store,
		productRepo: productRepo,
		shopBaseURL: strings.TrimRight(shopBaseURL, "/"),
		now:         time.Now,
	}
}

// CreateCart starts a cart holding one unit of each active product given,
// typically a whole recommended routine.
func (s *cartService) CreateCart(ctx context.Context, leadID string, productIDs []uint64) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	c := domain.Cart{ID: uuid.NewString(), LeadID: leadID, Items: []domain.CartItem{}}

	items, err := s.items(ctx, productIDs)
	if err != nil {
		return domain.Cart{}, err
	}
	for _, it := range items {
		c.Add(it)
	}

	if err := s.save(ctx, &c); err != nil {
		return domain.Cart{}, err
	}

	logger.Info("cart created", "cart_id", c.ID, "items", len(c.Items))
	return c, nil
}

func (s *cartService) GetCart(ctx context.Context, id string) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	c, err := s.store.Get(ctx, id)
	if err != nil {
		logger.Error("Failed to get cart", err)
		return domain.Cart{}, err
	}
	return c, nil
}

func (s *cartService) AddItem(ctx context.Context, id string, productID uint64, quantity int) (domain.Cart, error) {
	if err := validQuantity(quantity); err != nil {
		return domain.Cart{}, err
	}

	c, err := s.GetCart(ctx, id)
	if err != nil {
		return domain.Cart{}, err
	}

	items, err := s.items(ctx, []uint64{productID})
	if err != nil {
		return domain.Cart{}, err
	}
	if len(items) == 0 {
		return domain.Cart{}, errors.New("product not found")
	}

	item := items[0]
	item.Quantity = quantity
	c.Add(item)
	for _, it := range c.Items {
		if it.Quantity > maxQuantity {
			return domain.Cart{}, errors.New("quantity too large")
		}
	}

	if err := s.save(ctx, &c); err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

// SetQuantity changes an item quantity; zero removes the item.
func (s *cartService) SetQuantity(ctx context.Context, id string, productID uint64, quantity int) (domain.Cart, error) {
	if quantity != 0 {
		if err := validQuantity(quantity); err != nil {
			return domain.Cart{}, err
		}
	}

	c, err := s.GetCart(ctx, id)
	if err != nil {
		return domain.Cart{}, err
	}

	if !c.SetQuantity(productID, quantity) {
		return domain.Cart{}, errors.New("item not found")
	}

	if err := s.save(ctx, &c); err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

func (s *cartService) RemoveItem(ctx context.Context, id string, productID uint64) (domain.Cart, error) {
	return s.SetQuantity(ctx, id, productID, 0)
}

func (s *cartService) DeleteCart(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete cart", err)
		return err
	}
	return nil
}

// CheckoutURL builds the shop cart permalink {shop}/cart/{variant}:{qty},...
func (s *cartService) CheckoutURL(ctx context.Context, id string) (string, error) {
	c, err := s.GetCart(ctx, id)
	if err != nil {
		return "", err
	}
	return BuildCheckoutURL(s.shopBaseURL, c)
}

func BuildCheckoutURL(shopBaseURL string, c domain.Cart) (string, error) {
	if shopBaseURL == "" {
		return "", errors.New("checkout not configured")
	}
	if len(c.Items) == 0 {
		return "", errors.New("cart is empty")
	}

	lines := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ShopVariantID == "" {
			return "", fmt.Errorf("product %d is not available online", it.ProductID)
		}
		lines = append(lines, fmt.Sprintf("%s:%d", it.ShopVariantID, it.Quantity))
	}

	return strings.TrimRight(shopBaseURL, "/") + "/cart/" + strings.Join(lines, ","), nil
}

// items turns product ids into cart lines, keeping the given order and
// skipping inactive products.
func (s *cartService) items(ctx context.Context, ids []uint64) ([]domain.CartItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		logger.Error("Failed to load cart products", err)
		return nil, err
	}

	byID := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]domain.CartItem, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !p.Active {
			continue
		}
		out = append(out, domain.CartItem{
			ProductID:     p.ID,
			ShopVariantID: p.ShopVariantID,
			Name:          p.Name,
			Price:         p.Price,
			Quantity:      1,
		})
	}
	return out, nil
}

func (s *cartService) save(ctx context.Context, c *domain.Cart) error {
	c.UpdatedAt = s.now()
	if err := s.store.Save(ctx, *c); err != nil {
		logger.Error("Failed to save cart", err)
		return err
	}
	return nil
}

func validQuantity(quantity int) error {
	if quantity < 1 || quantity > maxQuantity {
		return fmt.Errorf("quantity must be between 1 and %d", maxQuantity)
	}
	return nil
}
