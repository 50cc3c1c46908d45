package docs

import "testing"

func TestTopicsAndGet(t *testing.T) {
	t.Parallel()

	topics := Topics()
	if len(topics) == 0 {
		t.Fatalf("no embedded topics")
	}

	for _, topic := range topics {
		body, ok := Get(topic)
		if !ok || body == "" {
			t.Fatalf("topic %q listed but not retrievable", topic)
		}
	}

	if _, ok := Get("no-such-topic"); ok {
		t.Fatalf("unknown topic should not resolve")
	}
	// Lookup is case-insensitive.
	if _, ok := Get("KEYS"); !ok {
		t.Fatalf("case-insensitive lookup failed")
	}
}
