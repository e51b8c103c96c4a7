package rooms

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-logr/logr"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
	"github.com/yhlooo/pedpong/pkg/chats/channels"
)

const defaultListenBufferSize = 64

// NewLocalRoom 创建本地房间实例
func NewLocalRoom(current chatv1.RoomID, capacity int) Room {
	return &localRoom{
		uid:      metav1.NewUID(),
		current:  current,
		capacity: capacity,
		members:  make(map[metav1.UID]chatv1.User),
		channels: make(map[*listener]struct{}),
	}
}

// localRoom 是 Room 的本地实现
type localRoom struct {
	uid      metav1.UID
	capacity int

	lock sync.RWMutex

	closed  bool
	current chatv1.RoomID

	members  map[metav1.UID]chatv1.User
	channels map[*listener]struct{}
}

var _ Room = (*localRoom)(nil)

// Info 获取房间信息
func (r *localRoom) Info(_ context.Context) (*RoomInfo, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var members []chatv1.User
	if len(r.members) > 0 {
		members = make([]chatv1.User, 0, len(r.members))
		for _, member := range r.members {
			members = append(members, *member.DeepCopy())
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].UID.String() < members[j].UID.String()
	})

	return &RoomInfo{
		UID:      r.uid,
		Current:  r.current,
		Capacity: r.capacity,
		Members:  members,
	}, nil
}

// Join 加入房间
func (r *localRoom) Join(ctx context.Context, user *chatv1.User) error {
	r.lock.Lock()
	if r.closed {
		r.lock.Unlock()
		return ErrRoomClosed
	}
	if _, ok := r.members[user.UID]; ok {
		r.lock.Unlock()
		return nil
	}
	if r.capacity > 0 && len(r.members) >= r.capacity {
		r.lock.Unlock()
		return fmt.Errorf("%w: capacity %d", ErrRoomFull, r.capacity)
	}
	r.members[user.UID] = *user.DeepCopy()
	r.lock.Unlock()

	return r.CreateMessage(ctx, chatv1.NewSystemMessage(user.ShowingName()+" joined"))
}

// Leave 离开房间
func (r *localRoom) Leave(ctx context.Context, userUID metav1.UID) error {
	r.lock.Lock()
	user, ok := r.members[userUID]
	delete(r.members, userUID)
	closed := r.closed
	r.lock.Unlock()

	if !ok || closed {
		return nil
	}
	return r.CreateMessage(ctx, chatv1.NewSystemMessage(user.ShowingName()+" left"))
}

// SetRoom 设置当前房间标识
func (r *localRoom) SetRoom(ctx context.Context, id chatv1.RoomID) error {
	r.lock.Lock()
	if r.closed {
		r.lock.Unlock()
		return ErrRoomClosed
	}
	if r.current == id {
		r.lock.Unlock()
		return nil
	}
	r.current = id
	r.lock.Unlock()

	logr.FromContextOrDiscard(ctx).V(1).Info(fmt.Sprintf("room changed to %q", id))
	return r.CreateMessage(ctx, chatv1.NewRoomChangeMessage(id))
}

// CreateMessage 创建消息
func (r *localRoom) CreateMessage(ctx context.Context, msg *chatv1.Message) error {
	logger := logr.FromContextOrDiscard(ctx)

	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.closed {
		return ErrRoomClosed
	}

	if msg.IsReturnCommand() {
		msg = chatv1.NewSystemMessage(fmt.Sprintf("%s is returning to %s", msg.Sender, r.current.DisplayName()))
	}

	// 按线上格式投递，监听者收到的内容与线上格式能表达的一致
	raw := msg.String()
	delivered := chatv1.ParseMessage(raw)
	delivered.Meta.UID = metav1.NewUID()
	logger.V(2).Info(fmt.Sprintf("message %s: %s", delivered.Meta.UID, raw))

	for ch := range r.channels {
		if err := ch.Send(delivered); err != nil {
			owner := ch.Owner()
			logger.V(1).Info(fmt.Sprintf(
				"deliver message %s to %q error: %v", delivered.Meta.UID, owner.ShowingName(), err,
			))
		}
	}

	return nil
}

// Listen 获取监听消息的信道
func (r *localRoom) Listen(_ context.Context, user *metav1.ObjectMeta) (channels.Channel, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return nil, ErrRoomClosed
	}

	var owner metav1.ObjectMeta
	if user != nil {
		owner = *user.DeepCopy()
	}
	ch := &listener{
		ChannelWithSender: channels.NewLocalChannel(owner, defaultListenBufferSize),
		room:              r,
	}
	r.channels[ch] = struct{}{}

	return ch, nil
}

// stopListen 停止监听消息
func (r *localRoom) stopListen(ch *listener) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.channels, ch)
}

// Close 关闭
func (r *localRoom) Close(_ context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return nil
	}

	for ch := range r.channels {
		_ = ch.ChannelWithSender.Close()
		delete(r.channels, ch)
	}

	r.closed = true

	return nil
}

// listener 房间中的监听通道，关闭时从房间移除
type listener struct {
	channels.ChannelWithSender
	room *localRoom
}

// Close 关闭通道
func (l *listener) Close() error {
	l.room.stopListen(l)
	return l.ChannelWithSender.Close()
}
