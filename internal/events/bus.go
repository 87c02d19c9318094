package events

import (
	"sync"
	"sync/atomic"
	"time"

	"typewriter-cli/internal/typewriter"
)

// Frame 是一次引擎输出的快照，附带来源引擎与序号。
type Frame struct {
	EngineID string
	State    typewriter.State
	Seq      uint64
	At       time.Time
}

// Bus 将引擎帧广播给展示层。每个订阅者只保留最新一帧：
// 未读的旧帧会被新帧覆盖，慢消费者总能读到最终状态。
type Bus struct {
	mu     sync.Mutex
	subs   []chan Frame
	closed bool
	seq    atomic.Uint64
	now    func() time.Time
}

func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe 返回容量为 1 的订阅通道，Close 时关闭。
func (b *Bus) Subscribe() <-chan Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan Frame)
		close(ch)
		return ch
	}
	ch := make(chan Frame, 1)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish 向所有订阅者投递帧，不会阻塞。
func (b *Bus) Publish(frame Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- frame:
			continue
		default:
		}
		// 通道已满：丢弃未读旧帧再放入新帧。
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- frame:
		default:
		}
	}
}

// Emitter 返回可作为 typewriter.Options.OnEmit 的回调，为帧打上引擎 id 与递增序号。
func (b *Bus) Emitter(engineID string) func(typewriter.State) {
	return func(st typewriter.State) {
		b.Publish(Frame{
			EngineID: engineID,
			State:    st,
			Seq:      b.seq.Add(1),
			At:       b.now(),
		})
	}
}

// SubscriberCount 返回当前订阅者数量。
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.closed = true
}
