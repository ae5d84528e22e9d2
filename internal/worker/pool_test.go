package worker_test

import (
	"testing"

	"github.com/kairos-interview/backend/internal/worker"
)

func TestPoolProcessesAllJobs(t *testing.T) {
	p := worker.NewPool[int](3, 8)
	for i := 0; i < 8; i++ {
		i := i
		p.Submit("job", func() int { return i * i })
	}
	p.Close()

	sum := 0
	count := 0
	for r := range p.Results() {
		sum += r.Output
		count++
	}
	if count != 8 {
		t.Errorf("got %d results, want 8", count)
	}
	if want := 0 + 1 + 4 + 9 + 16 + 25 + 36 + 49; sum != want {
		t.Errorf("sum = %d, want %d", sum, want)
	}
}

func TestPoolCarriesJobID(t *testing.T) {
	p := worker.NewPool[string](1, 1)
	p.Submit("summary-42", func() string { return "done" })
	p.Close()

	r := <-p.Results()
	if r.JobID != "summary-42" || r.Output != "done" {
		t.Errorf("result = %+v", r)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := worker.NewPool[struct{}](2, 2)
	p.Close()
	p.Close()
}
