package managers

import (
	"context"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
	"github.com/yhlooo/pedpong/pkg/chats/rooms"
	"github.com/yhlooo/pedpong/pkg/routetimer"
)

// Manager 聊天管理器
type Manager interface {
	// Self 获取当前用户
	Self() metav1.ObjectMeta
	// Room 获取聊天房间
	Room() rooms.Room
	// Controller 获取房间计时控制器
	Controller() *routetimer.Controller
	// Routes 获取路线表
	Routes() []chatv1.Route

	// Start 加入房间并开始计时
	Start(ctx context.Context) error
	// SendMessage 以当前用户身份发送消息
	SendMessage(ctx context.Context, text string) error
	// ChangeRoom 切换到指定房间
	ChangeRoom(ctx context.Context, id chatv1.RoomID) error
	// SelectTransport 切换到指定交通方式的路线
	SelectTransport(ctx context.Context, t chatv1.TransportType) (chatv1.RoomID, error)
	// Close 离开房间并停止计时
	Close(ctx context.Context) error
}
