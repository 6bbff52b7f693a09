package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/safelanka/alert-engine/internal/models"
	"github.com/safelanka/alert-engine/internal/repository"
	"github.com/safelanka/alert-engine/internal/snapshot"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestHub(t *testing.T) (*Hub, *repository.SQLiteDB) {
	t.Helper()
	db, err := repository.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := New(snapshot.NewAggregator(db), 20)
	t.Cleanup(h.Close)
	return h, db
}

func createAlert(t *testing.T, db *repository.SQLiteDB) {
	t.Helper()
	a := &models.Alert{
		Severity: models.SeverityCritical,
		Topic:    "Test",
		Message:  "Test message",
		District: "Colombo",
		Location: "Test location",
		Author:   models.RoleOperator,
	}
	if err := db.Create(context.Background(), a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
}

func TestHub_InitialSnapshotOnSubscribe(t *testing.T) {
	h, db := newTestHub(t)
	for i := 0; i < 5; i++ {
		createAlert(t, db)
	}

	id, ch, err := h.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Unsubscribe(id)

	select {
	case s := <-ch:
		if s.Total != 5 {
			t.Errorf("expected initial snapshot total=5, got %d", s.Total)
		}
	default:
		t.Fatal("expected initial snapshot to be immediately available")
	}
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	h, db := newTestHub(t)
	for i := 0; i < 5; i++ {
		createAlert(t, db)
	}

	id, ch, err := h.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Unsubscribe(id)
	<-ch // drain initial

	// A sixth alert lands; the subscriber sees total=6 without asking.
	createAlert(t, db)
	if err := h.Publish(context.Background()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case s := <-ch:
		if s.Total != 6 {
			t.Errorf("expected pushed snapshot total=6, got %d", s.Total)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for pushed snapshot")
	}
}

func TestHub_OnePushPerPublish(t *testing.T) {
	h, _ := newTestHub(t)

	id, ch, err := h.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Unsubscribe(id)
	<-ch

	for i := 0; i < 3; i++ {
		if err := h.Publish(context.Background()); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			if received != 3 {
				t.Errorf("expected exactly 3 pushes, got %d", received)
			}
			return
		}
	}
}

func TestHub_UnsubscribedReceivesNothing(t *testing.T) {
	h, _ := newTestHub(t)

	id, ch, err := h.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	<-ch
	h.Unsubscribe(id)

	if h.SubscriberCount() != 0 {
		t.Errorf("expected empty registry after unsubscribe, got %d", h.SubscriberCount())
	}

	if err := h.Publish(context.Background()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// Channel is closed and drained; nothing further arrives.
	if _, ok := <-ch; ok {
		t.Error("expected closed channel after unsubscribe")
	}
}

func TestHub_UnsubscribeIdempotent(t *testing.T) {
	h, _ := newTestHub(t)

	id, ch, err := h.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	<-ch

	h.Unsubscribe(id)
	h.Unsubscribe(id) // must not panic
}

func TestHub_ConcurrentSubscribePublish(t *testing.T) {
	h, db := newTestHub(t)
	createAlert(t, db)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, ch, err := h.Subscribe(context.Background())
			if err != nil {
				t.Errorf("Subscribe failed: %v", err)
				return
			}
			go func() {
				for range ch {
				}
			}()
			time.Sleep(2 * time.Millisecond)
			h.Unsubscribe(id)
		}()
	}
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.Publish(context.Background()); err != nil {
				t.Errorf("Publish failed: %v", err)
			}
		}()
	}

	wg.Wait()
	if h.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after cleanup, got %d", h.SubscriberCount())
	}
}

func TestHub_Close(t *testing.T) {
	h, _ := newTestHub(t)

	var chans []<-chan snapshot.Snapshot
	for i := 0; i < 4; i++ {
		_, ch, err := h.Subscribe(context.Background())
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		<-ch
		chans = append(chans, ch)
	}

	h.Close()

	if h.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", h.SubscriberCount())
	}
	for i, ch := range chans {
		if _, ok := <-ch; ok {
			t.Errorf("channel %d should be closed", i)
		}
	}

	if _, _, err := h.Subscribe(context.Background()); err != ErrClosed {
		t.Errorf("expected ErrClosed subscribing to closed hub, got %v", err)
	}
}
