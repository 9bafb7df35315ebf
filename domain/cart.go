package domain

import "time"

type CartItem struct {
	ProductID     uint64  `json:"product_id"`
	ShopVariantID string  `json:"shop_variant_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
}

type Cart struct {
	ID        string     `json:"id"`
	LeadID    string     `json:"lead_id,omitempty"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Total is the sum of price times quantity of every item.
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Add appends the item or, when the product is already there, raises its
// quantity.
func (c *Cart) Add(item CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// SetQuantity updates one item; zero or less removes it. It reports
// whether the product was in the cart.
func (c *Cart) SetQuantity(productID uint64, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = quantity
		}
		return true
	}
	return false
}

func (c *Cart) Remove(productID uint64) bool {
	return c.SetQuantity(productID, 0)
}
