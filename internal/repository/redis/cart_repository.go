package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"

	"github.com/redis/go-redis/v9"
)

type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

func cartKey(id string) string {
	return fmt.Sprintf("cart:%s", id)
}

// Save stores the cart and restarts its expiry.
func (r *CartRepository) Save(ctx context.Context, cart domain.Cart) error {
	jsonData, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cart.ID), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cart in Redis: %w", err)
	}

	return nil
}

func (r *CartRepository) Get(ctx context.Context, id string) (domain.Cart, error) {
	val, err := r.client.Get(ctx, cartKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Cart{}, errors.New("cart not found")
		}
		return domain.Cart{}, fmt.Errorf("failed to get cart from Redis: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	return cart, nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Del(ctx, cartKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if deleted == 0 {
		return errors.New("cart not found")
	}

	return nil
}
