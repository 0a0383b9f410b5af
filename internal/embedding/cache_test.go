package embedding

import "testing"

func TestCache_PutGet(t *testing.T) {
	c := NewCache(2)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put("a", []float32{1, 2})
	v, ok := c.Get("a")
	if !ok || len(v) != 2 || v[0] != 1 {
		t.Errorf("got %v, %v", v, ok)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Put("a", []float32{1})
	c.Put("b", []float32{2})
	c.Get("a") // a is now most recent
	c.Put("c", []float32{3})

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive")
	}
	if c.Len() != 2 {
		t.Errorf("len: got %d", c.Len())
	}
}

func TestCache_UpdateDoesNotGrow(t *testing.T) {
	c := NewCache(2)
	c.Put("a", []float32{1})
	c.Put("a", []float32{9})
	if c.Len() != 1 {
		t.Errorf("len: got %d", c.Len())
	}
	v, _ := c.Get("a")
	if v[0] != 9 {
		t.Errorf("update lost: %v", v)
	}
}
