package domain

import "testing"

func TestCartOperations(t *testing.T) {
	var c Cart

	c.Add(CartItem{ProductID: 1, Price: 10, Quantity: 1})
	c.Add(CartItem{ProductID: 2, Price: 5.5})
	c.Add(CartItem{ProductID: 1, Price: 10, Quantity: 2})

	if len(c.Items) != 2 || c.Items[0].Quantity != 3 || c.Items[1].Quantity != 1 {
		t.Fatalf("items = %+v", c.Items)
	}
	if got := c.Total(); got != 35.5 {
		t.Errorf("total = %v, want 35.5", got)
	}

	if !c.SetQuantity(2, 4) || c.Items[1].Quantity != 4 {
		t.Errorf("set quantity failed: %+v", c.Items)
	}
	if c.SetQuantity(9, 1) {
		t.Error("unknown product reported as updated")
	}

	if !c.Remove(1) || len(c.Items) != 1 || c.Items[0].ProductID != 2 {
		t.Errorf("remove failed: %+v", c.Items)
	}
	if !c.SetQuantity(2, 0) || len(c.Items) != 0 {
		t.Errorf("zero quantity should remove: %+v", c.Items)
	}
}
