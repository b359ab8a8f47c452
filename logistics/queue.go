/*
queue.go - Priority request queue

PURPOSE:
  Holds pending logistics requests ordered by descending priority.
  Equal priorities keep arrival order, so starved low-priority work
  still drains FIFO once the high-priority burst passes.
*/
package logistics

import "sort"

type requestQueue struct {
	items []*Request
}

func (q *requestQueue) Push(r *Request) {
	q.items = append(q.items, r)
	sort.SliceStable(q.items, func(i, j int) bool {
		return q.items[i].Priority > q.items[j].Priority
	})
}

// Pop removes and returns the highest-priority request, nil when empty.
func (q *requestQueue) Pop() *Request {
	if len(q.items) == 0 {
		return nil
	}
	r := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return r
}

// Remove drops the request with the given ID, reporting whether it was
// present.
func (q *requestQueue) Remove(id string) bool {
	for i, r := range q.items {
		if r.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *requestQueue) Len() int { return len(q.items) }

// requeueFront puts deferred requests back at the head. They were popped
// in priority order, so prepending keeps the queue sorted.
func (q *requestQueue) requeueFront(rs []*Request) {
	if len(rs) == 0 {
		return
	}
	q.items = append(rs, q.items...)
}

// Each visits queued requests in priority order without removing them.
func (q *requestQueue) Each(fn func(*Request)) {
	for _, r := range q.items {
		fn(r)
	}
}
