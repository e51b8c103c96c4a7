package routetimer

import (
	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
)

// EventType 事件类型
type EventType int

const (
	// EventTick 一秒计时
	EventTick EventType = iota
	// EventRoomChanged 外部设置了房间
	EventRoomChanged
)

// Event 驱动状态机的事件
type Event struct {
	Type EventType
	// 新房间，仅 EventRoomChanged
	Room chatv1.RoomID
}

// Tick 创建计时事件
func Tick() Event {
	return Event{Type: EventTick}
}

// RoomChanged 创建房间变更事件
func RoomChanged(room chatv1.RoomID) Event {
	return Event{Type: EventRoomChanged, Room: room}
}

// TransitionKind 状态转换类型
type TransitionKind int

const (
	// TransitionNone 没有发生转换
	TransitionNone TransitionKind = iota
	// TransitionDiverted 路线倒计时结束，前往 Ped Pong
	TransitionDiverted
	// TransitionReturned Ped Pong 倒计时结束，返回路线
	TransitionReturned
	// TransitionMoved 外部设置了新房间
	TransitionMoved
)

// String 返回字符串形式
func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "None"
	case TransitionDiverted:
		return "Diverted"
	case TransitionReturned:
		return "Returned"
	case TransitionMoved:
		return "Moved"
	}
	return "Unknown"
}

// EffectType 副作用类型
type EffectType int

const (
	// EffectSetRoom 将房间写入权威的房间设置器
	EffectSetRoom EffectType = iota
	// EffectSendMessage 发送消息
	EffectSendMessage
)

// Effect 状态转换产生的副作用，由控制器在状态更新后执行
type Effect struct {
	Type EffectType
	Room chatv1.RoomID
	Text string
}

// Outcome 一次状态转换的结果
type Outcome struct {
	Transition TransitionKind
	From, To   chatv1.RoomID
	// 转换瞬间的状态标签
	Status      string
	NextStation string
	Effects     []Effect
}

// Transition 对 state 应用 event ，返回新状态和转换结果
//
// 该函数不产生副作用
func Transition(state State, event Event, cfg Config) (State, Outcome) {
	var (
		next State
		out  Outcome
	)
	switch event.Type {
	case EventTick:
		next, out = tick(state, cfg)
	case EventRoomChanged:
		next, out = changeRoom(state, event.Room, cfg)
	default:
		next = state
	}

	next.Status, next.NextStation = DeriveLabels(next, cfg)
	if out.Transition != TransitionNone && out.Status == "" {
		out.Status, out.NextStation = next.Status, next.NextStation
	}
	return next, out
}

// tick 处理一秒计时
func tick(state State, cfg Config) (State, Outcome) {
	next := state
	switch state.ActiveCountdown() {
	case CountdownRoute:
		next.RouteSecondsRemaining = clamp(state.RouteSecondsRemaining-1, cfg.RouteSeconds)
		if next.RouteSecondsRemaining > 0 {
			return next, Outcome{}
		}
		next.PreviousRoom = state.CurrentRoom
		next.CurrentRoom = chatv1.PedPong
		next.InPedPong = true
		next.PedPongSecondsRemaining = cfg.PedPongSeconds
		return next, Outcome{
			Transition: TransitionDiverted,
			From:       state.CurrentRoom,
			To:         chatv1.PedPong,
			Effects:    []Effect{{Type: EffectSetRoom, Room: chatv1.PedPong}},
		}

	case CountdownPedPong:
		next.PedPongSecondsRemaining = clamp(state.PedPongSecondsRemaining-1, cfg.PedPongSeconds)
		if next.PedPongSecondsRemaining > 0 || state.PreviousRoom == "" {
			return next, Outcome{}
		}
		next.CurrentRoom = state.PreviousRoom
		next.InPedPong = false
		next.RouteSecondsRemaining = cfg.RouteSeconds
		return next, Outcome{
			Transition:  TransitionReturned,
			From:        state.CurrentRoom,
			To:          state.PreviousRoom,
			Status:      StatusReturning,
			NextStation: string(state.PreviousRoom),
			Effects: []Effect{
				{Type: EffectSetRoom, Room: state.PreviousRoom},
				{Type: EffectSendMessage, Text: chatv1.ReturnCommand},
			},
		}
	}
	return next, Outcome{}
}

// changeRoom 处理外部房间变更
func changeRoom(state State, room chatv1.RoomID, cfg Config) (State, Outcome) {
	if room == state.CurrentRoom {
		return state, Outcome{}
	}

	next := state
	next.CurrentRoom = room
	switch {
	case room == chatv1.PedPong && !state.InPedPong:
		next.InPedPong = true
		if next.PreviousRoom == "" && state.CurrentRoom != "" && state.CurrentRoom.IsRoute() {
			next.PreviousRoom = state.CurrentRoom
		}
		next.PedPongSecondsRemaining = cfg.PedPongSeconds
	case room != chatv1.PedPong && state.InPedPong:
		next.InPedPong = false
		next.PedPongSecondsRemaining = 0
		next.RouteSecondsRemaining = cfg.RouteSeconds
	default:
		next.RouteSecondsRemaining = cfg.RouteSeconds
	}

	return next, Outcome{
		Transition: TransitionMoved,
		From:       state.CurrentRoom,
		To:         room,
		Effects:    []Effect{{Type: EffectSetRoom, Room: room}},
	}
}

// clamp 将 v 限制在 [0, upper]
func clamp(v, upper int) int {
	if v < 0 {
		return 0
	}
	if v > upper {
		return upper
	}
	return v
}
