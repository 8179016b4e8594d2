package chat

import (
	"math/rand"
	"sync"
	"time"
)

// cannedReplies are the simulated collaborator responses. Chat runs in demo
// mode: replies are synthesized locally, no presence protocol exists, and
// every frame advertises that the channel is simulated.
var cannedReplies = []string{
	"Great point!",
	"I agree with that approach.",
	"Let me review that section.",
	"Thanks for the feedback!",
	"That's a good suggestion.",
}

// Responder produces simulated chat replies after a randomized delay.
type Responder struct {
	mu       sync.Mutex
	rng      *rand.Rand
	minDelay time.Duration
	maxDelay time.Duration
}

// NewResponder creates a Responder replying between minDelay and maxDelay
// after each user message. Defaults mirror the original demo (1-3 s).
func NewResponder(minDelay, maxDelay time.Duration) *Responder {
	if minDelay <= 0 {
		minDelay = time.Second
	}
	if maxDelay < minDelay {
		maxDelay = minDelay + 2*time.Second
	}
	return &Responder{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

func (r *Responder) Delay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := r.maxDelay - r.minDelay
	if span <= 0 {
		return r.minDelay
	}
	return r.minDelay + time.Duration(r.rng.Int63n(int64(span)))
}

func (r *Responder) Reply() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cannedReplies[r.rng.Intn(len(cannedReplies))]
}
