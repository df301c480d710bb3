package exchange

// History is a fixed-capacity FIFO of mid prices, oldest first.
// It is not safe for concurrent use; the Simulator guards it.
type History struct {
	buf   []float64
	start int
	size  int
}

// NewHistory allocates a ring with the given capacity (minimum 1).
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest value once the ring is full.
func (h *History) Push(v float64) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = v
		h.size++
		return
	}
	h.buf[h.start] = v
	h.start = (h.start + 1) % len(h.buf)
}

// Len reports how many values are stored.
func (h *History) Len() int { return h.size }

// Cap reports the ring capacity.
func (h *History) Cap() int { return len(h.buf) }

// Values copies the stored values out in oldest-first order.
func (h *History) Values() []float64 {
	out := make([]float64, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}
