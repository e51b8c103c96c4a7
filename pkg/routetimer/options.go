package routetimer

import (
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
)

const (
	// DefaultRouteSeconds 默认路线倒计时时长（秒）
	DefaultRouteSeconds = 30
	// DefaultPedPongSeconds 默认 Ped Pong 停留时长（秒）
	DefaultPedPongSeconds = 30
	// DefaultStatus 默认状态标签
	DefaultStatus = "Driving"
	// DefaultNextStation 默认下一站标签
	DefaultNextStation = "ped pong"

	maxCountdownSeconds       = 24 * 60 * 60
	defaultWatchChannelBuffer = 16
)

// NewConfig 创建默认 Config
func NewConfig() Config {
	return Config{
		RouteSeconds:       DefaultRouteSeconds,
		PedPongSeconds:     DefaultPedPongSeconds,
		DefaultStatus:      DefaultStatus,
		DefaultNextStation: DefaultNextStation,
	}
}

// Config 状态机配置
type Config struct {
	// 路线倒计时时长（秒）
	RouteSeconds int `json:"routeSeconds,omitempty" yaml:"routeSeconds,omitempty"`
	// Ped Pong 停留时长（秒）
	PedPongSeconds int `json:"pedPongSeconds,omitempty" yaml:"pedPongSeconds,omitempty"`
	// 没有派生标签时使用的状态标签
	DefaultStatus string `json:"defaultStatus,omitempty" yaml:"defaultStatus,omitempty"`
	// 没有派生标签时使用的下一站标签
	DefaultNextStation string `json:"defaultNextStation,omitempty" yaml:"defaultNextStation,omitempty"`
}

// Complete 补全配置
func (c *Config) Complete() {
	defaults := NewConfig()
	if c.RouteSeconds == 0 {
		c.RouteSeconds = defaults.RouteSeconds
	}
	if c.PedPongSeconds == 0 {
		c.PedPongSeconds = defaults.PedPongSeconds
	}
	if c.DefaultStatus == "" {
		c.DefaultStatus = defaults.DefaultStatus
	}
	if c.DefaultNextStation == "" {
		c.DefaultNextStation = defaults.DefaultNextStation
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.RouteSeconds <= 0 || c.RouteSeconds > maxCountdownSeconds {
		return fmt.Errorf("invalid .RouteSeconds: %d (expected 1..%d)", c.RouteSeconds, maxCountdownSeconds)
	}
	if c.PedPongSeconds <= 0 || c.PedPongSeconds > maxCountdownSeconds {
		return fmt.Errorf("invalid .PedPongSeconds: %d (expected 1..%d)", c.PedPongSeconds, maxCountdownSeconds)
	}
	return nil
}

// Options 控制器选项
type Options struct {
	Config

	// 初始房间
	InitialRoom chatv1.RoomID
	// 时钟，默认使用真实时钟
	Clock clockwork.Clock
	// 自动转换时通知外部的房间设置器，可选
	RoomSetter RoomSetter
	// 自动返回时发送通知的发送器，可选
	Sender Sender
}

// Complete 补全选项
func (o *Options) Complete() {
	o.Config.Complete()
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
}

// Validate 校验选项
func (o *Options) Validate() error {
	if o.InitialRoom == "" {
		return errors.New(".InitialRoom is required")
	}
	return o.Config.Validate()
}
