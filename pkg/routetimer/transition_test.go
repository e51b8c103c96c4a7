package routetimer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
)

const blueLine chatv1.RoomID = "bike_blue_line"

// TestFormatTime 测试 FormatTime
func TestFormatTime(t *testing.T) {
	a := assert.New(t)

	a.Equal("0:30", FormatTime(30))
	a.Equal("0:00", FormatTime(0))
	a.Equal("0:05", FormatTime(5))
	a.Equal("1:15", FormatTime(75))
	a.Equal("0:00", FormatTime(-3))
	for s := 0; s <= 30; s++ {
		a.Equal("0:"+twoDigits(s), FormatTime(s))
	}
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

// TestNewState 测试 NewState
func TestNewState(t *testing.T) {
	a := assert.New(t)
	cfg := NewConfig()

	s := NewState(blueLine, cfg)
	a.Equal(PhaseOnRoute, s.Phase())
	a.Equal(30, s.RouteSecondsRemaining)
	a.Equal(CountdownRoute, s.ActiveCountdown())
	a.Equal(DefaultStatus, s.Status)
	a.Equal(DefaultNextStation, s.NextStation)

	s = NewState(chatv1.PedPong, cfg)
	a.Equal(PhaseAtPedPong, s.Phase())
	a.Equal(30, s.PedPongSecondsRemaining)
	a.Equal(chatv1.RoomID(""), s.PreviousRoom)
	a.Equal(StatusAtPedPong, s.Status)
	a.Equal(NextStationFallback, s.NextStation)

	s = NewState(chatv1.DuckPond, cfg)
	a.True(s.Frozen())
	a.Equal(CountdownNone, s.ActiveCountdown())
}

// TestTransition_RouteExpires 测试路线倒计时结束前往 Ped Pong
func TestTransition_RouteExpires(t *testing.T) {
	a := assert.New(t)
	cfg := NewConfig()

	s := NewState(blueLine, cfg)
	s.RouteSecondsRemaining = 1

	next, out := Transition(s, Tick(), cfg)
	a.Equal(chatv1.PedPong, next.CurrentRoom)
	a.Equal(blueLine, next.PreviousRoom)
	a.True(next.InPedPong)
	a.Equal(30, next.PedPongSecondsRemaining)
	a.Equal(0, next.RouteSecondsRemaining)
	a.Equal(CountdownPedPong, next.ActiveCountdown())
	a.Equal(StatusAtPedPong, next.Status)
	a.Equal(string(blueLine), next.NextStation)

	a.Equal(TransitionDiverted, out.Transition)
	a.Equal(blueLine, out.From)
	a.Equal(chatv1.PedPong, out.To)
	a.Equal([]Effect{{Type: EffectSetRoom, Room: chatv1.PedPong}}, out.Effects)
}

// TestTransition_PedPongExpires 测试 Ped Pong 倒计时结束返回路线
func TestTransition_PedPongExpires(t *testing.T) {
	a := assert.New(t)
	cfg := NewConfig()

	s := State{
		CurrentRoom:             chatv1.PedPong,
		PreviousRoom:            blueLine,
		InPedPong:               true,
		PedPongSecondsRemaining: 1,
	}

	next, out := Transition(s, Tick(), cfg)
	a.Equal(blueLine, next.CurrentRoom)
	a.Equal(blueLine, next.PreviousRoom)
	a.False(next.InPedPong)
	a.Equal(30, next.RouteSecondsRemaining)
	a.Equal(StatusOnRoute, next.Status)
	a.Equal(NextStationPedPong, next.NextStation)

	a.Equal(TransitionReturned, out.Transition)
	a.Equal(StatusReturning, out.Status)
	a.Equal(string(blueLine), out.NextStation)

	sends := 0
	for _, e := range out.Effects {
		if e.Type == EffectSendMessage {
			sends++
			a.Equal(chatv1.ReturnCommand, e.Text)
		}
	}
	a.Equal(1, sends)
	a.Equal(Effect{Type: EffectSetRoom, Room: blueLine}, out.Effects[0])
}

// TestTransition_PedPongExpiresWithoutPrevious 测试没有来源路线时 Ped Pong 倒计时结束
func TestTransition_PedPongExpiresWithoutPrevious(t *testing.T) {
	a := assert.New(t)
	cfg := NewConfig()

	s := NewState(chatv1.PedPong, cfg)
	s.PedPongSecondsRemaining = 1

	next, out := Transition(s, Tick(), cfg)
	a.Equal(chatv1.PedPong, next.CurrentRoom)
	a.Equal(0, next.PedPongSecondsRemaining)
	a.Equal(CountdownNone, next.ActiveCountdown())
	a.Equal(TransitionNone, out.Transition)
	a.Empty(out.Effects)

	// 不会变成负数
	again, _ := Transition(next, Tick(), cfg)
	a.Equal(next, again)
}

// TestTransition_Countdown 测试普通计时
func TestTransition_Countdown(t *testing.T) {
	a := assert.New(t)
	cfg := NewConfig()

	s := NewState(blueLine, cfg)
	for i := 29; i > 0; i-- {
		var out Outcome
		s, out = Transition(s, Tick(), cfg)
		a.Equal(i, s.RouteSecondsRemaining)
		a.Equal(TransitionNone, out.Transition)
	}
	s, out := Transition(s, Tick(), cfg)
	a.Equal(TransitionDiverted, out.Transition)
	for i := 29; i > 0; i-- {
		s, out = Transition(s, Tick(), cfg)
		a.Equal(i, s.PedPongSecondsRemaining)
		a.Equal(TransitionNone, out.Transition)
	}
	s, out = Transition(s, Tick(), cfg)
	a.Equal(TransitionReturned, out.Transition)
	a.Equal(blueLine, s.CurrentRoom)
}

// TestTransition_DuckPond 测试鸭子池塘中不计时
func TestTransition_DuckPond(t *testing.T) {
	a := assert.New(t)
	cfg := NewConfig()

	s := NewState(chatv1.DuckPond, cfg)
	s.RouteSecondsRemaining = 1
	for i := 0; i < 100; i++ {
		next, out := Transition(s, Tick(), cfg)
		a.Equal(s, next)
		a.Equal(TransitionNone, out.Transition)
	}
}

// TestTransition_RoomChanged 测试外部设置房间
func TestTransition_RoomChanged(t *testing.T) {
	cfg := NewConfig()
	busRoute := chatv1.RoomID("bus_ev_central_station")

	t.Run("same room is a no-op", func(t *testing.T) {
		a := assert.New(t)
		s := NewState(blueLine, cfg)
		s.RouteSecondsRemaining = 12
		next, out := Transition(s, RoomChanged(blueLine), cfg)
		a.Equal(s, next)
		a.Equal(TransitionNone, out.Transition)

		p := State{CurrentRoom: chatv1.PedPong, PreviousRoom: blueLine, InPedPong: true, PedPongSecondsRemaining: 7}
		p.Status, p.NextStation = DeriveLabels(p, cfg)
		next, out = Transition(p, RoomChanged(chatv1.PedPong), cfg)
		a.Equal(p, next)
		a.Equal(TransitionNone, out.Transition)
	})

	t.Run("route to route resets route countdown", func(t *testing.T) {
		a := assert.New(t)
		s := NewState(blueLine, cfg)
		s.RouteSecondsRemaining = 12
		next, out := Transition(s, RoomChanged(busRoute), cfg)
		a.Equal(busRoute, next.CurrentRoom)
		a.Equal(30, next.RouteSecondsRemaining)
		a.Equal(TransitionMoved, out.Transition)
		a.Equal([]Effect{{Type: EffectSetRoom, Room: busRoute}}, out.Effects)
	})

	t.Run("route to ped pong establishes previous room", func(t *testing.T) {
		a := assert.New(t)
		s := NewState(blueLine, cfg)
		next, _ := Transition(s, RoomChanged(chatv1.PedPong), cfg)
		a.True(next.InPedPong)
		a.Equal(blueLine, next.PreviousRoom)
		a.Equal(30, next.PedPongSecondsRemaining)
		a.Equal(string(blueLine), next.NextStation)
	})

	t.Run("ped pong keeps known previous room", func(t *testing.T) {
		a := assert.New(t)
		s := NewState(busRoute, cfg)
		s.PreviousRoom = blueLine
		next, _ := Transition(s, RoomChanged(chatv1.PedPong), cfg)
		a.Equal(blueLine, next.PreviousRoom)
	})

	t.Run("duck pond to ped pong leaves previous room unset", func(t *testing.T) {
		a := assert.New(t)
		s := NewState(chatv1.DuckPond, cfg)
		next, _ := Transition(s, RoomChanged(chatv1.PedPong), cfg)
		a.True(next.InPedPong)
		a.Equal(chatv1.RoomID(""), next.PreviousRoom)
		a.Equal(NextStationFallback, next.NextStation)
	})

	t.Run("leaving ped pong resets route countdown", func(t *testing.T) {
		a := assert.New(t)
		s := State{CurrentRoom: chatv1.PedPong, PreviousRoom: blueLine, InPedPong: true, PedPongSecondsRemaining: 7}
		next, _ := Transition(s, RoomChanged(busRoute), cfg)
		a.False(next.InPedPong)
		a.Equal(30, next.RouteSecondsRemaining)
		a.Equal(CountdownRoute, next.ActiveCountdown())
		a.Equal(DefaultStatus, next.Status)

		next, _ = Transition(s, RoomChanged(chatv1.DuckPond), cfg)
		a.False(next.InPedPong)
		a.Equal(CountdownNone, next.ActiveCountdown())
	})
}

// TestDeriveLabels 测试 DeriveLabels
func TestDeriveLabels(t *testing.T) {
	a := assert.New(t)
	cfg := Config{DefaultStatus: "Parked", DefaultNextStation: "somewhere"}

	status, next := DeriveLabels(State{CurrentRoom: chatv1.PedPong, PreviousRoom: blueLine}, cfg)
	a.Equal(StatusAtPedPong, status)
	a.Equal(string(blueLine), next)

	status, next = DeriveLabels(State{CurrentRoom: blueLine, PreviousRoom: blueLine}, cfg)
	a.Equal(StatusOnRoute, status)
	a.Equal(NextStationPedPong, next)

	status, next = DeriveLabels(State{CurrentRoom: "car_taxi_airport", PreviousRoom: blueLine}, cfg)
	a.Equal("Parked", status)
	a.Equal("somewhere", next)
}
