package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDrainPreservesOrder(t *testing.T) {
	q := New()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		q.Post(func() { got = append(got, i) })
	}

	if n := q.Drain(); n != 5 {
		t.Fatalf("Drain() = %d, want 5", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order broken: %v", got)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue not empty: %d", q.Len())
	}
}

func TestDrainRunsFunctionsPostedDuringDrain(t *testing.T) {
	q := New()
	ran := false
	q.Post(func() { q.Post(func() { ran = true }) })

	if n := q.Drain(); n != 2 || !ran {
		t.Fatalf("n=%d ran=%v", n, ran)
	}
}

func TestPostFromManyGoroutines(t *testing.T) {
	q := New()
	const writers, each = 8, 100

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Post(func() {})
			}
		}()
	}
	wg.Wait()

	if n := q.Drain(); n != writers*each {
		t.Fatalf("Drain() = %d, want %d", n, writers*each)
	}
}

func TestRunDeliversInOrder(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan int, 10)
	go q.Run(ctx, func(f func()) { f() })

	for i := 0; i < 10; i++ {
		i := i
		q.Post(func() { results <- i })
	}

	for want := 0; want < 10; want++ {
		select {
		case got := <-results:
			if got != want {
				t.Fatalf("got %d, want %d", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %d", want)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.Run(ctx, func(f func()) { f() })
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClosedQueueIgnoresPost(t *testing.T) {
	q := New()
	q.Post(func() {})
	q.Close()
	q.Post(func() {})

	if n := q.Drain(); n != 0 {
		t.Fatalf("Drain() = %d after Close", n)
	}
}
