package actor

// Notifier delivers events of one type to its subscribers, synchronously and
// in subscription order.
type Notifier[T any] struct {
	subs   []subscription[T]
	nextID int
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a func that removes it again.
func (n *Notifier[T]) Subscribe(fn func(T)) func() {
	if n == nil || fn == nil {
		return func() {}
	}
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscription[T]{id: id, fn: fn})
	return func() { n.unsubscribe(id) }
}

func (n *Notifier[T]) unsubscribe(id int) {
	for i, s := range n.subs {
		if s.id == id {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			return
		}
	}
}

// Emit calls every subscriber registered at the moment of the call.
func (n *Notifier[T]) Emit(evt T) {
	if n == nil || len(n.subs) == 0 {
		return
	}
	subs := append([]subscription[T](nil), n.subs...)
	for _, s := range subs {
		if n.subscribed(s.id) {
			s.fn(evt)
		}
	}
}

func (n *Notifier[T]) subscribed(id int) bool {
	for _, s := range n.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

// Len reports the number of subscribers.
func (n *Notifier[T]) Len() int {
	if n == nil {
		return 0
	}
	return len(n.subs)
}
