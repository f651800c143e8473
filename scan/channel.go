// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"github.com/siemens/hostwatch/types"

	"github.com/gammazero/deque"
)

// NewEventChannel returns the sending and receiving ends of an unbounded
// event channel. Events are received in the order they were sent. Senders
// never block on a slow receiver, as events get buffered without limit.
//
// Closing the sending end first passes on all still buffered events and only
// then closes the receiving end, so the receiver must keep receiving until
// the receiving end has been closed.
func NewEventChannel() (chan<- types.Event, <-chan types.Event) {
	in := make(chan types.Event)
	out := make(chan types.Event)
	go func() {
		defer close(out)
		queue := deque.New[types.Event]()
		for {
			if queue.Len() == 0 {
				ev, ok := <-in
				if !ok {
					return
				}
				queue.PushBack(ev)
				continue
			}
			select {
			case ev, ok := <-in:
				if !ok {
					for queue.Len() > 0 {
						out <- queue.PopFront()
					}
					return
				}
				queue.PushBack(ev)
			case out <- queue.Front():
				queue.PopFront()
			}
		}
	}()
	return in, out
}
