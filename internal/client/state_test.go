package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"ngfw-panel/internal/models"
)

func ruleCache(max int) *Cache[models.FirewallRule] {
	return NewCache(max, func(r models.FirewallRule) string { return r.ID })
}

func TestCacheReplaceTruncatesToCap(t *testing.T) {
	c := ruleCache(3)

	var rules []models.FirewallRule
	for i := 0; i < 10; i++ {
		rules = append(rules, models.FirewallRule{ID: fmt.Sprintf("r%d", i)})
	}
	c.Replace(rules)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "r0", c.Items()[0].ID)
}

func TestCachePatchByID(t *testing.T) {
	c := ruleCache(5)
	c.Replace([]models.FirewallRule{
		{ID: "a", Name: "one"},
		{ID: "b", Name: "two"},
	})

	ok := c.PatchByID(models.FirewallRule{ID: "b", Name: "two patched"})
	assert.True(t, ok)
	assert.Equal(t, "two patched", c.Items()[1].Name)

	ok = c.PatchByID(models.FirewallRule{ID: "zz", Name: "ghost"})
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCacheRemoveByID(t *testing.T) {
	c := ruleCache(5)
	c.Replace([]models.FirewallRule{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	assert.True(t, c.RemoveByID("b"))
	assert.False(t, c.RemoveByID("b"))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "a", c.Items()[0].ID)
	assert.Equal(t, "c", c.Items()[1].ID)
}

func TestCachePrependEvicts(t *testing.T) {
	c := ruleCache(2)
	c.Prepend(models.FirewallRule{ID: "old"})
	c.Prepend(models.FirewallRule{ID: "mid"})
	c.Prepend(models.FirewallRule{ID: "new"})

	items := c.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
}

func TestCacheItemsIsACopy(t *testing.T) {
	c := ruleCache(5)
	c.Replace([]models.FirewallRule{{ID: "a", Name: "orig"}})

	items := c.Items()
	items[0].Name = "mutated"

	assert.Equal(t, "orig", c.Items()[0].Name, "callers cannot mutate the cache in place")
}
