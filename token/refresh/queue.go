package refresh

import "sync"

// Result is what one refresh wave settles to.
type Result struct {
	Token string
	Err   error
}

// Subscriber is notified once with the result of the wave it joined.
type Subscriber func(Result)

// Queue holds the subscribers of a single refresh wave in enqueue order.
type Queue struct {
	mu   sync.Mutex
	subs []Subscriber
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(s Subscriber) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.subs = append(q.subs, s)
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.subs)
}

// DrainAndNotify empties the queue and calls every subscriber with r, first in first out.
func (q *Queue) DrainAndNotify(r Result) {
	q.mu.Lock()
	subs := q.subs
	q.subs = nil
	q.mu.Unlock()

	for _, s := range subs {
		s(r)
	}
}
