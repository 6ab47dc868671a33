package cache

import (
	"context"
	"testing"
	"time"

	"github.com/allychat/rag-agent/internal/retrieval"
)

func TestRedisSearchCache_KeyIsDeterministic(t *testing.T) {
	c := NewRedisSearchCache(nil, "search:", time.Minute)

	first := c.Key("5:what is the screen size?")
	second := c.Key("5:what is the screen size?")

	if first != second {
		t.Errorf("Same query produced different keys: %s vs %s", first, second)
	}
	if first[:len("search:")] != "search:" {
		t.Errorf("Key is missing the prefix: %s", first)
	}
}

func TestRedisSearchCache_KeyVariesWithQuery(t *testing.T) {
	c := NewRedisSearchCache(nil, "search:", time.Minute)

	if c.Key("5:question one") == c.Key("5:question two") {
		t.Error("Different queries produced the same key")
	}
	if c.Key("3:same question") == c.Key("5:same question") {
		t.Error("Different top-k values produced the same key")
	}
}

func TestNoopSearchCache(t *testing.T) {
	var c SearchCache = NoopSearchCache{}

	c.Set(context.Background(), "q", []retrieval.Result{{ChunkID: 1, Text: "x", Score: 0.9, Rank: 1}})

	results, ok := c.Get(context.Background(), "q")
	if ok {
		t.Error("Noop cache reported a hit")
	}
	if results != nil {
		t.Errorf("Noop cache returned results: %+v", results)
	}
}
