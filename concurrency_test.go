package rocksq

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestBoundedConcurrentPushers(t *testing.T) {
	q := newBoundedQueue(t, 10_000)
	ctx := context.Background()

	const (
		producers = 8
		perWorker = 25
	)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < producers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				payload := []byte(fmt.Sprintf("w%d-%d", w, i))
				resp, err := q.Push(ctx, [][]byte{payload})
				if err != nil {
					return err
				}
				if _, err := resp.Get(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("producers: %v", err)
	}

	lenResp, err := q.Len(context.Background())
	if n := await(t, lenResp, err); n != producers*perWorker {
		t.Fatalf("len = %d, want %d", n, producers*perWorker)
	}
}

func TestLabeledConcurrentConsumers(t *testing.T) {
	q := newLabeledQueue(t, time.Hour)
	ctx := context.Background()

	const total = 50
	for i := 0; i < total; i++ {
		addPayloads(t, q, fmt.Sprintf("rec-%d", i))
	}

	// each label independently drains the full stream
	g, ctx := errgroup.WithContext(ctx)
	for _, label := range []string{"alpha", "beta", "gamma"} {
		label := label
		g.Go(func() error {
			seen := 0
			for seen < total {
				resp, err := q.Next(ctx, label, Oldest, 7)
				if err != nil {
					return err
				}
				res, err := resp.Get(ctx)
				if err != nil {
					return err
				}
				if len(res.Payloads) == 0 {
					return fmt.Errorf("label %s: stream ended at %d of %d", label, seen, total)
				}
				seen += len(res.Payloads)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("consumers: %v", err)
	}
}

func TestBoundedMixedPushPop(t *testing.T) {
	q := newBoundedQueue(t, 1_000)
	ctx := context.Background()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i := 0; i < 100; i++ {
			resp, err := q.Push(ctx, [][]byte{[]byte("x")})
			if err != nil {
				return err
			}
			if _, err := resp.Get(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	popped := 0
	g.Go(func() error {
		deadline := time.Now().Add(5 * time.Second)
		for popped < 100 {
			if time.Now().After(deadline) {
				return fmt.Errorf("popped only %d of 100", popped)
			}
			resp, err := q.Pop(ctx, 10)
			if err != nil {
				return err
			}
			res, err := resp.Get(ctx)
			if err != nil {
				return err
			}
			popped += len(res.Payloads)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatalf("mixed load: %v", err)
	}

	lenResp, err := q.Len(context.Background())
	if n := await(t, lenResp, err); n != 0 {
		t.Fatalf("len = %d, want 0", n)
	}
}
