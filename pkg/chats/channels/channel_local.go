package channels

import (
	"sync"
	"sync/atomic"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
)

// NewLocalChannel 创建基于内存的 Channel
func NewLocalChannel(owner metav1.ObjectMeta, bufSize int) ChannelWithSender {
	if bufSize < 0 {
		bufSize = 0
	}
	return &localChannel{
		owner: owner,
		ch:    make(chan *chatv1.Message, bufSize),
		done:  make(chan struct{}),
	}
}

// localChannel 基于内存的 Channel 实现
type localChannel struct {
	owner metav1.ObjectMeta

	lock    sync.RWMutex
	closed  bool
	ch      chan *chatv1.Message
	done    chan struct{}
	dropped atomic.Uint64
}

var _ ChannelWithSender = (*localChannel)(nil)

// Owner 获取通道所属用户
func (ch *localChannel) Owner() metav1.ObjectMeta {
	return ch.owner
}

// Send 发送消息到通道
//
// 每个接收者拿到的都是消息的拷贝
func (ch *localChannel) Send(msg *chatv1.Message) error {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	if ch.closed {
		return ErrChannelClosed
	}
	select {
	case ch.ch <- msg.DeepCopy():
	default:
		ch.dropped.Add(1)
		return ErrChannelBusy
	}
	return nil
}

// Messages 获取接收消息的通道
func (ch *localChannel) Messages() <-chan *chatv1.Message {
	return ch.ch
}

// Done 获取关闭或完成通知通道
func (ch *localChannel) Done() <-chan struct{} {
	return ch.done
}

// Dropped 获取因通道忙被丢弃的消息数
func (ch *localChannel) Dropped() uint64 {
	return ch.dropped.Load()
}

// Close 关闭通道
func (ch *localChannel) Close() error {
	ch.lock.Lock()
	defer ch.lock.Unlock()
	if ch.closed {
		return ErrChannelClosed
	}
	close(ch.ch)
	close(ch.done)
	ch.closed = true
	return nil
}
