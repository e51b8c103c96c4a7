package rooms

import (
	"context"
	"errors"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
	"github.com/yhlooo/pedpong/pkg/chats/channels"
)

// Room 聊天房间
//
// 消息收发和权威的房间标识都由房间负责
type Room interface {
	// Info 获取房间信息
	Info(ctx context.Context) (*RoomInfo, error)

	// Join 加入房间
	Join(ctx context.Context, user *chatv1.User) error
	// Leave 离开房间
	Leave(ctx context.Context, userUID metav1.UID) error

	// SetRoom 设置当前房间标识并通知所有成员
	SetRoom(ctx context.Context, id chatv1.RoomID) error

	// CreateMessage 创建消息
	CreateMessage(ctx context.Context, msg *chatv1.Message) error
	// Listen 获取监听消息的信道
	Listen(ctx context.Context, user *metav1.ObjectMeta) (channels.Channel, error)

	// Close 关闭
	Close(ctx context.Context) error
}

// RoomInfo 房间信息
type RoomInfo struct {
	UID metav1.UID
	// 当前房间标识
	Current chatv1.RoomID
	// 房间容量， 0 表示不限
	Capacity int
	// 成员
	Members []chatv1.User
}

var (
	// ErrRoomClosed 房间已关闭
	ErrRoomClosed = errors.New("RoomClosed")
	// ErrRoomFull 房间已满
	ErrRoomFull = errors.New("RoomFull")
)
