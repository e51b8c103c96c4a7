package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
	"github.com/yhlooo/pedpong/pkg/chats/channels"
)

// receive 从通道接收一条消息
func receive(t *testing.T, ch channels.Channel) *chatv1.Message {
	t.Helper()
	select {
	case msg, ok := <-ch.Messages():
		if !ok {
			t.Fatal("channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("receive message timeout")
	}
	return nil
}

// TestLocalRoom_Messages 测试本地房间消息收发
func TestLocalRoom_Messages(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	room := NewLocalRoom("bus_ev_central_station", 2)
	alice := &chatv1.User{ObjectMeta: metav1.ObjectMeta{UID: metav1.NewUID(), Name: "alice"}}

	ch, err := room.Listen(ctx, &alice.ObjectMeta)
	a.NoError(err)
	a.Equal("alice", ch.Owner().Name)

	a.NoError(room.Join(ctx, alice))
	a.Equal("System:alice joined", receive(t, ch).String())

	a.NoError(room.CreateMessage(ctx, chatv1.NewTextMessage("alice", "hello: world")))
	msg := receive(t, ch)
	a.Equal("alice:hello: world", msg.String())
	a.False(msg.Meta.UID.IsNil())

	a.NoError(room.SetRoom(ctx, chatv1.PedPong))
	msg = receive(t, ch)
	a.True(msg.Hidden())
	changed, ok := msg.RoomChange()
	a.True(ok)
	a.Equal(chatv1.PedPong, changed)

	// 相同房间不再通知
	a.NoError(room.SetRoom(ctx, chatv1.PedPong))

	a.NoError(room.CreateMessage(ctx, chatv1.NewTextMessage("alice", chatv1.ReturnCommand)))
	msg = receive(t, ch)
	a.True(msg.System)
	a.Equal("alice is returning to Ped Pong", msg.Content)

	info, err := room.Info(ctx)
	a.NoError(err)
	a.Equal(chatv1.PedPong, info.Current)
	a.Equal(2, info.Capacity)
	a.Len(info.Members, 1)

	// 发送者中的冒号按线上格式切分
	a.NoError(room.CreateMessage(ctx, chatv1.NewTextMessage("bob:ext", "hi")))
	msg = receive(t, ch)
	a.Equal("bob", msg.Sender)
	a.Equal("ext:hi", msg.Content)

	a.NoError(ch.Close())
	a.NoError(room.CreateMessage(ctx, chatv1.NewTextMessage("alice", "anyone?")))
}

// TestLocalRoom_Capacity 测试房间容量
func TestLocalRoom_Capacity(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	room := NewLocalRoom("car_taxi_airport_link", 1)
	alice := &chatv1.User{ObjectMeta: metav1.ObjectMeta{UID: metav1.NewUID(), Name: "alice"}}
	bob := &chatv1.User{ObjectMeta: metav1.ObjectMeta{UID: metav1.NewUID(), Name: "bob"}}

	a.NoError(room.Join(ctx, alice))
	a.NoError(room.Join(ctx, alice))
	a.ErrorIs(room.Join(ctx, bob), ErrRoomFull)

	a.NoError(room.Leave(ctx, alice.UID))
	a.NoError(room.Join(ctx, bob))

	info, err := room.Info(ctx)
	a.NoError(err)
	a.Len(info.Members, 1)
	a.Equal("bob", info.Members[0].Name)
}

// TestLocalRoom_Close 测试关闭房间
func TestLocalRoom_Close(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	room := NewLocalRoom("bike_moto_old_city", 0)
	ch, err := room.Listen(ctx, nil)
	a.NoError(err)

	a.NoError(room.Close(ctx))
	a.NoError(room.Close(ctx))

	_, ok := <-ch.Messages()
	a.False(ok)

	_, err = room.Listen(ctx, nil)
	a.ErrorIs(err, ErrRoomClosed)
	a.ErrorIs(room.CreateMessage(ctx, chatv1.NewTextMessage("a", "b")), ErrRoomClosed)
	a.ErrorIs(room.SetRoom(ctx, chatv1.DuckPond), ErrRoomClosed)
	a.ErrorIs(room.Join(ctx, &chatv1.User{}), ErrRoomClosed)
}
