package runtime

import "sync"

// Progress is a point-in-time view of batch progress for the presentation
// layer to poll.
type Progress struct {
	// Completed is the number of input URLs fully processed.
	Completed int `json:"completed"`
	// Total is the number of input URLs in the batch.
	Total int `json:"total"`
	// CurrentURL is the URL being processed, empty before the batch starts
	// and after it finishes.
	CurrentURL string `json:"current_url,omitempty"`
}

// Fraction returns completion as a value in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// Done reports whether every URL has been processed.
func (p Progress) Done() bool {
	return p.Total > 0 && p.Completed >= p.Total
}

// tracker guards progress state. The core loop is sequential; the mutex only
// serializes against presentation-layer polling from another goroutine.
type tracker struct {
	mu sync.Mutex
	p  Progress
}

func (t *tracker) reset(total int) {
	t.mu.Lock()
	t.p = Progress{Total: total}
	t.mu.Unlock()
}

func (t *tracker) setCurrent(url string) {
	t.mu.Lock()
	t.p.CurrentURL = url
	t.mu.Unlock()
}

func (t *tracker) complete() {
	t.mu.Lock()
	t.p.Completed++
	if t.p.Completed >= t.p.Total {
		t.p.CurrentURL = ""
	}
	t.mu.Unlock()
}

func (t *tracker) snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}
