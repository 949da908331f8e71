package conversation

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quillsearch/search-agent/internal/models"
)

func turn(role models.Role, content string) models.Turn {
	return models.Turn{Role: role, Content: content, CreatedAt: time.Now()}
}

func TestGetOrCreate_NewConversation(t *testing.T) {
	store := NewInMemoryStore(0)

	id, created := store.GetOrCreate("")
	if id == "" {
		t.Fatal("expected a generated conversation id")
	}
	if !created {
		t.Error("expected created=true for a fresh conversation")
	}

	// Second lookup with the same id must not recreate it.
	same, created := store.GetOrCreate(id)
	if same != id {
		t.Errorf("expected same id back, got %s", same)
	}
	if created {
		t.Error("expected created=false for an existing conversation")
	}
}

func TestHistory_UnknownID(t *testing.T) {
	store := NewInMemoryStore(0)

	_, err := store.History("no-such-conversation")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendExchange_StrictOrder(t *testing.T) {
	store := NewInMemoryStore(0)
	id, _ := store.GetOrCreate("")

	for i := 0; i < 3; i++ {
		store.AppendExchange(id,
			turn(models.RoleUser, fmt.Sprintf("question %d", i)),
			turn(models.RoleAssistant, fmt.Sprintf("answer %d", i)),
		)
	}

	turns, err := store.History(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 6 {
		t.Fatalf("expected 6 turns, got %d", len(turns))
	}
	for i := 0; i < 3; i++ {
		user := turns[2*i]
		assistant := turns[2*i+1]
		if user.Role != models.RoleUser || user.Content != fmt.Sprintf("question %d", i) {
			t.Errorf("turn %d: expected user question %d, got %+v", 2*i, i, user)
		}
		if assistant.Role != models.RoleAssistant || assistant.Content != fmt.Sprintf("answer %d", i) {
			t.Errorf("turn %d: expected assistant answer %d, got %+v", 2*i+1, i, assistant)
		}
	}
}

func TestAppendExchange_ConcurrentPairsNeverInterleave(t *testing.T) {
	store := NewInMemoryStore(0)
	id, _ := store.GetOrCreate("")

	const writers = 16
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			content := fmt.Sprintf("exchange %d", n)
			store.AppendExchange(id,
				turn(models.RoleUser, content),
				turn(models.RoleAssistant, content),
			)
		}(w)
	}
	wg.Wait()

	turns, err := store.History(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != writers*2 {
		t.Fatalf("expected %d turns, got %d", writers*2, len(turns))
	}

	// Every user turn must be immediately followed by its own assistant
	// turn.
	for i := 0; i < len(turns); i += 2 {
		if turns[i].Role != models.RoleUser || turns[i+1].Role != models.RoleAssistant {
			t.Fatalf("turn %d: pair roles interleaved: %s then %s", i, turns[i].Role, turns[i+1].Role)
		}
		if turns[i].Content != turns[i+1].Content {
			t.Fatalf("turn %d: pair split across exchanges: %q vs %q", i, turns[i].Content, turns[i+1].Content)
		}
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	store := NewInMemoryStore(0)
	id, _ := store.GetOrCreate("")
	store.AppendExchange(id, turn(models.RoleUser, "q"), turn(models.RoleAssistant, "a"))

	turns, _ := store.History(id)
	turns[0].Content = "mutated"

	again, _ := store.History(id)
	if again[0].Content != "q" {
		t.Error("History must return a copy, not the live slice")
	}
}

func TestEviction_OldestConversationDropped(t *testing.T) {
	store := NewInMemoryStore(2)

	first, _ := store.GetOrCreate("")
	store.AppendExchange(first, turn(models.RoleUser, "q"), turn(models.RoleAssistant, "a"))
	time.Sleep(time.Millisecond)

	second, _ := store.GetOrCreate("")
	time.Sleep(time.Millisecond)
	third, _ := store.GetOrCreate("")

	if _, err := store.History(first); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected oldest conversation evicted, got err=%v", err)
	}
	if _, err := store.History(second); err != nil {
		t.Errorf("expected second conversation kept: %v", err)
	}
	if _, err := store.History(third); err != nil {
		t.Errorf("expected third conversation kept: %v", err)
	}
}
