package drawq

import (
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestQueueFIFO(t *testing.T) {
	q := &jobQueue{}
	if q.pending() {
		t.Fatal("fresh queue reports pending jobs")
	}

	q.push(ClearJob{Color: Black})
	q.push(RectJob{X: 1})
	q.push(RectJob{X: 2})
	if !q.pending() {
		t.Fatal("queue with jobs reports empty")
	}

	jobs := q.detach()
	if len(jobs) != 3 {
		t.Fatalf("detach returned %d jobs, want 3", len(jobs))
	}
	if _, ok := jobs[0].(ClearJob); !ok {
		t.Errorf("jobs[0] = %T, want ClearJob", jobs[0])
	}
	if r := jobs[1].(RectJob); r.X != 1 {
		t.Errorf("jobs[1].X = %d, want 1", r.X)
	}
	if r := jobs[2].(RectJob); r.X != 2 {
		t.Errorf("jobs[2].X = %d, want 2", r.X)
	}

	if q.pending() {
		t.Error("queue still pending after detach")
	}
	if got := q.detach(); len(got) != 0 {
		t.Errorf("second detach returned %d jobs, want 0", len(got))
	}
}

func TestQueueRequeuePrepends(t *testing.T) {
	q := &jobQueue{}
	q.push(RectJob{X: 1})
	q.push(RectJob{X: 2})
	q.push(RectJob{X: 3})

	jobs := q.detach()
	// Job 1 "executed", job 2 "failed": 3 goes back to the head.
	q.push(RectJob{X: 4}) // producer raced in during the drain
	q.requeue(jobs[2:])

	got := q.detach()
	want := []int16{3, 4}
	if len(got) != len(want) {
		t.Fatalf("detach returned %d jobs, want %d", len(got), len(want))
	}
	for i, w := range want {
		if r := got[i].(RectJob); r.X != w {
			t.Errorf("jobs[%d].X = %d, want %d", i, r.X, w)
		}
	}
}

func TestQueueRequeueEmpty(t *testing.T) {
	q := &jobQueue{}
	q.requeue(nil)
	if q.pending() {
		t.Error("requeue(nil) made the queue pending")
	}
}

// TestQueueConcurrentProducers checks that jobs from concurrent
// producers interleave without loss and stay FIFO per producer.
func TestQueueConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 200

	q := &jobQueue{}
	var g errgroup.Group
	for p := 0; p < producers; p++ {
		p := p
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				q.push(LineJob{X1: int16(p), X2: int16(i)})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	jobs := q.detach()
	if len(jobs) != producers*perProducer {
		t.Fatalf("got %d jobs, want %d", len(jobs), producers*perProducer)
	}

	next := make([]int16, producers)
	for _, j := range jobs {
		l := j.(LineJob)
		if l.X2 != next[l.X1] {
			t.Fatalf("producer %d: job %d out of order, want %d", l.X1, l.X2, next[l.X1])
		}
		next[l.X1]++
	}
}
