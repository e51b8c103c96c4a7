package routetimer

import (
	"fmt"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
)

const (
	// StatusAtPedPong 在 Ped Pong 停留时的状态标签
	StatusAtPedPong = "At Ped Pong"
	// StatusOnRoute 回到进入 Ped Pong 前的路线时的状态标签
	StatusOnRoute = "On route"
	// StatusReturning 自动返回路线瞬间的状态标签
	StatusReturning = "Returning to route"
	// NextStationPedPong 在路线上时的下一站标签
	NextStationPedPong = "Ped Pong"
	// NextStationFallback 在 Ped Pong 但不知道之前路线时的下一站标签
	NextStationFallback = "Return to route"
)

// Phase 状态机所处阶段
type Phase int

const (
	// PhaseOnRoute 在路线上，倒计时结束后前往 Ped Pong
	PhaseOnRoute Phase = iota
	// PhaseAtPedPong 在 Ped Pong 停留，倒计时结束后返回路线
	PhaseAtPedPong
)

// String 返回字符串形式
func (p Phase) String() string {
	switch p {
	case PhaseOnRoute:
		return "OnRoute"
	case PhaseAtPedPong:
		return "AtPedPong"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Countdown 倒计时类型
type Countdown int

const (
	// CountdownNone 不计时
	CountdownNone Countdown = iota
	// CountdownRoute 前往 Ped Pong 的倒计时
	CountdownRoute
	// CountdownPedPong 返回路线的倒计时
	CountdownPedPong
)

// String 返回字符串形式
func (c Countdown) String() string {
	switch c {
	case CountdownNone:
		return "None"
	case CountdownRoute:
		return "Route"
	case CountdownPedPong:
		return "PedPong"
	}
	return fmt.Sprintf("Countdown(%d)", int(c))
}

// State 控制器状态
type State struct {
	// 当前房间
	CurrentRoom chatv1.RoomID
	// 进入 Ped Pong 前所在的路线房间，空表示未知
	PreviousRoom chatv1.RoomID
	// 是否在 Ped Pong
	InPedPong bool
	// 前往 Ped Pong 的剩余秒数
	RouteSecondsRemaining int
	// 返回路线的剩余秒数
	PedPongSecondsRemaining int
	// 当前状态标签
	Status string
	// 下一站标签
	NextStation string
}

// NewState 创建位于 room 的初始状态
func NewState(room chatv1.RoomID, cfg Config) State {
	s := State{
		CurrentRoom:           room,
		RouteSecondsRemaining: cfg.RouteSeconds,
	}
	if room == chatv1.PedPong {
		s.InPedPong = true
		s.PedPongSecondsRemaining = cfg.PedPongSeconds
	}
	s.Status, s.NextStation = DeriveLabels(s, cfg)
	return s
}

// Phase 获取所处阶段
func (s State) Phase() Phase {
	if s.InPedPong {
		return PhaseAtPedPong
	}
	return PhaseOnRoute
}

// Frozen 是否处于暂停计时的房间
func (s State) Frozen() bool {
	return s.CurrentRoom == chatv1.DuckPond
}

// ActiveCountdown 获取当前应运行的倒计时
func (s State) ActiveCountdown() Countdown {
	switch {
	case s.Frozen():
		return CountdownNone
	case s.InPedPong:
		if s.PedPongSecondsRemaining > 0 {
			return CountdownPedPong
		}
	case s.RouteSecondsRemaining > 0:
		return CountdownRoute
	}
	return CountdownNone
}

// DeriveLabels 根据状态计算状态标签和下一站标签
func DeriveLabels(s State, cfg Config) (status, nextStation string) {
	switch {
	case s.CurrentRoom == chatv1.PedPong:
		if s.PreviousRoom != "" {
			return StatusAtPedPong, string(s.PreviousRoom)
		}
		return StatusAtPedPong, NextStationFallback
	case s.PreviousRoom != "" && s.CurrentRoom == s.PreviousRoom:
		return StatusOnRoute, NextStationPedPong
	}
	return cfg.DefaultStatus, cfg.DefaultNextStation
}

// FormatTime 将秒数格式化为 m:ss
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
