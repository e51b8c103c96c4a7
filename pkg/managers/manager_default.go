package managers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
	"github.com/yhlooo/pedpong/pkg/chats/rooms"
	"github.com/yhlooo/pedpong/pkg/routetimer"
)

// ErrUnknownTransport 路线表中没有该交通方式
var ErrUnknownTransport = errors.New("UnknownTransport")

// Options 运行选项
type Options struct {
	// 当前用户
	Self metav1.ObjectMeta
	// 初始房间
	InitialRoom chatv1.RoomID
	// 房间容量， 0 表示不限
	Capacity int
	// 路线表
	Routes []chatv1.Route
	// 计时配置
	Timer routetimer.Config
	// 时钟，默认使用真实时钟
	Clock clockwork.Clock
}

// Complete 补全选项
func (o *Options) Complete() {
	if o.Self.UID.IsNil() {
		o.Self.UID = metav1.NewUID()
	}
	if len(o.Routes) == 0 {
		o.Routes = chatv1.DefaultRoutes()
	}
	if o.InitialRoom == "" {
		o.InitialRoom = o.Routes[0].Room
	}
	o.Timer.Complete()
}

// Validate 校验选项
func (o *Options) Validate() error {
	if o.InitialRoom == "" {
		return errors.New(".InitialRoom is required")
	}
	if o.Capacity < 0 {
		return fmt.Errorf("invalid .Capacity: %d (expected >= 0)", o.Capacity)
	}
	for i, r := range o.Routes {
		if !r.Transport.Valid() {
			return fmt.Errorf("invalid .Routes[%d].Transport: %q", i, r.Transport)
		}
		if !r.Room.IsRoute() {
			return fmt.Errorf("invalid .Routes[%d].Room: %q is not a route room", i, r.Room)
		}
	}
	if err := o.Timer.Validate(); err != nil {
		return fmt.Errorf("invalid .Timer: %w", err)
	}
	return nil
}

// NewManager 创建聊天管理器
func NewManager(opts Options) (Manager, error) {
	opts.Complete()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	mgr := &defaultManager{
		opts: opts,
		room: rooms.NewLocalRoom(opts.InitialRoom, opts.Capacity),
	}

	ctrl, err := routetimer.NewController(routetimer.Options{
		Config:      opts.Timer,
		InitialRoom: opts.InitialRoom,
		Clock:       opts.Clock,
		RoomSetter:  mgr.room,
		Sender:      routetimer.SenderFunc(mgr.SendMessage),
	})
	if err != nil {
		return nil, fmt.Errorf("create room timer controller error: %w", err)
	}
	mgr.controller = ctrl

	return mgr, nil
}

// defaultManager 是 Manager 的默认实现
type defaultManager struct {
	opts Options

	room       rooms.Room
	controller *routetimer.Controller

	closeOnce sync.Once
	closeErr  error
}

var _ Manager = (*defaultManager)(nil)

// Self 获取当前用户
func (mgr *defaultManager) Self() metav1.ObjectMeta {
	return mgr.opts.Self
}

// Room 获取聊天房间
func (mgr *defaultManager) Room() rooms.Room {
	return mgr.room
}

// Controller 获取房间计时控制器
func (mgr *defaultManager) Controller() *routetimer.Controller {
	return mgr.controller
}

// Routes 获取路线表
func (mgr *defaultManager) Routes() []chatv1.Route {
	return append([]chatv1.Route(nil), mgr.opts.Routes...)
}

// Start 加入房间并开始计时
func (mgr *defaultManager) Start(ctx context.Context) error {
	logger := logr.FromContextOrDiscard(ctx)

	if err := mgr.room.Join(ctx, &chatv1.User{ObjectMeta: mgr.opts.Self}); err != nil {
		return fmt.Errorf("join room error: %w", err)
	}
	if err := mgr.controller.Start(ctx); err != nil {
		return fmt.Errorf("start room timer controller error: %w", err)
	}

	logger.Info(fmt.Sprintf("%s joined %q", mgr.opts.Self.ShowingName(), mgr.opts.InitialRoom))
	return nil
}

// SendMessage 以当前用户身份发送消息
func (mgr *defaultManager) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return mgr.room.CreateMessage(ctx, chatv1.NewTextMessage(mgr.opts.Self.ShowingName(), text))
}

// ChangeRoom 切换到指定房间
//
// 房间只由控制器写入，保证与自动转换的写入顺序一致
func (mgr *defaultManager) ChangeRoom(ctx context.Context, id chatv1.RoomID) error {
	if err := mgr.controller.SetRoom(ctx, id); err != nil {
		return fmt.Errorf("change room to %q error: %w", id, err)
	}
	return nil
}

// SelectTransport 切换到指定交通方式的路线
func (mgr *defaultManager) SelectTransport(ctx context.Context, t chatv1.TransportType) (chatv1.RoomID, error) {
	route, ok := chatv1.FindRoute(mgr.opts.Routes, t)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTransport, t)
	}
	if err := mgr.ChangeRoom(ctx, route.Room); err != nil {
		return "", err
	}
	return route.Room, nil
}

// Close 离开房间并停止计时，重复调用返回首次关闭的结果
func (mgr *defaultManager) Close(ctx context.Context) error {
	mgr.closeOnce.Do(func() {
		mgr.closeErr = mgr.close(ctx)
	})
	return mgr.closeErr
}

// close 离开房间并停止计时
func (mgr *defaultManager) close(ctx context.Context) error {
	var errs []error
	if err := mgr.controller.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close room timer controller error: %w", err))
	}
	if err := mgr.room.Leave(ctx, mgr.opts.Self.UID); err != nil {
		errs = append(errs, fmt.Errorf("leave room error: %w", err))
	}
	if err := mgr.room.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close room error: %w", err))
	}
	return errors.Join(errs...)
}
