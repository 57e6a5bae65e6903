package worker_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/certprep/cbt/internal/worker"
)

func TestPool_RunsEveryJob(t *testing.T) {
	p := worker.NewPool[int](context.Background(), 3, 2)

	go func() {
		for i := 0; i < 10; i++ {
			n := i
			p.Submit(fmt.Sprint(n), func(ctx context.Context) int { return n * n })
		}
		p.Close()
	}()

	var got []int
	for res := range p.Results() {
		var n int
		fmt.Sscan(res.JobID, &n)
		if n*n != res.Output {
			t.Errorf("job %s produced %d", res.JobID, res.Output)
		}
		got = append(got, res.Output)
	}

	if len(got) != 10 {
		t.Fatalf("expected 10 results, got %d", len(got))
	}
	sort.Ints(got)
	if got[9] != 81 {
		t.Errorf("expected largest result 81, got %d", got[9])
	}
}

func TestPool_CloseWithoutJobs(t *testing.T) {
	p := worker.NewPool[error](context.Background(), 2, 0)
	p.Close()
	p.Close()

	for range p.Results() {
		t.Fatal("expected no results")
	}
}

func TestPool_PassesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := worker.NewPool[error](ctx, 1, 1)
	p.Submit("x", func(ctx context.Context) error { return ctx.Err() })
	p.Close()

	res := <-p.Results()
	if res.Output != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", res.Output)
	}
}
