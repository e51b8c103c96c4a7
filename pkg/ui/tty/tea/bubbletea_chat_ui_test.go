package tea

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
	"github.com/yhlooo/pedpong/pkg/routetimer"
)

// TestCountdownLabel 测试 countdownLabel
func TestCountdownLabel(t *testing.T) {
	a := assert.New(t)
	cfg := routetimer.NewConfig()

	state := routetimer.NewState("bike_moto_old_city", cfg)
	state.RouteSecondsRemaining = 5
	a.Contains(countdownLabel(state), "Time to Ped Pong: 0:05")

	state = routetimer.NewState(chatv1.PedPong, cfg)
	state.PedPongSecondsRemaining = 29
	a.Contains(countdownLabel(state), "Return to route in: 0:29")

	a.Equal("", countdownLabel(routetimer.NewState(chatv1.DuckPond, cfg)))
}

// TestRenderStatusBar 测试 renderStatusBar
func TestRenderStatusBar(t *testing.T) {
	a := assert.New(t)

	state := routetimer.NewState("bike_moto_old_city", routetimer.NewConfig())
	for _, width := range []int{0, 80} {
		bar := renderStatusBar(state, width)
		a.Contains(bar, "Next Station: "+state.NextStation)
		a.Contains(bar, "Current Status: "+state.Status)
		a.Contains(bar, "Time to Ped Pong: 0:30")
	}
}

// TestRenderRoomHeader 测试 renderRoomHeader
func TestRenderRoomHeader(t *testing.T) {
	a := assert.New(t)

	header := renderRoomHeader(chatv1.PedPong, 2, 10)
	a.Contains(header, "Room: "+chatv1.PedPong.DisplayName())
	a.Contains(header, "Users: 2/10")

	a.Contains(renderRoomHeader(chatv1.DuckPond, 1, 0), "Users: 1/∞")
}

// TestMessagesContent 测试 messagesContent
func TestMessagesContent(t *testing.T) {
	a := assert.New(t)

	content := messagesContent([]*chatv1.Message{
		chatv1.NewRoomChangeMessage(chatv1.PedPong),
		chatv1.NewSystemMessage("alice joined"),
		chatv1.NewTextMessage("alice", "hello"),
		chatv1.NewTextMessage("bob", "hi"),
	}, "alice", 40)

	a.NotContains(content, "ROOM_CHANGE")
	a.Contains(content, "alice joined")
	a.Contains(content, "hello")
	a.Contains(content, "bob")
	a.Contains(content, "hi")

	a.Equal("", messagesContent([]*chatv1.Message{chatv1.NewRoomChangeMessage(chatv1.DuckPond)}, "alice", 40))
}

// TestTransportPicker 测试交通方式选择器
func TestTransportPicker(t *testing.T) {
	a := assert.New(t)

	p := NewTransportPicker(chatv1.AllTransportTypes())

	// 没有焦点时忽略按键
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a.Nil(cmd)

	p.Focus()
	a.True(p.Focused())
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRight})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRight})
	p, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.NotNil(cmd) {
		a.Equal(TransportSelectedMsg{Type: chatv1.TransportBus}, cmd())
	}
	a.Equal(chatv1.TransportBus, p.Selected())

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyLeft})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyLeft})
	p, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.NotNil(cmd) {
		a.Equal(TransportSelectedMsg{Type: chatv1.TransportBike}, cmd())
	}

	p.SetSelected(chatv1.TransportLocation)
	p, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.NotNil(cmd) {
		a.Equal(TransportSelectedMsg{Type: chatv1.TransportLocation}, cmd())
	}

	p.Blur()
	a.False(p.Focused())
	view := p.View()
	for _, tt := range chatv1.AllTransportTypes() {
		a.True(strings.Contains(view, tt.Label()), tt)
	}
}

// TestChatUI_RoomChange 测试房间变更通知更新房间信息
func TestChatUI_RoomChange(t *testing.T) {
	a := assert.New(t)

	ui := &ChatUI{
		ctx:   context.Background(),
		self:  &metav1.ObjectMeta{Name: "alice"},
		state: routetimer.NewState("bike_moto_old_city", routetimer.NewConfig()),
		vp:    viewport.New(40, 10),
	}
	a.Equal(chatv1.RoomID("bike_moto_old_city"), ui.headerRoom())

	_, cmd := ui.Update(chatv1.NewRoomChangeMessage(chatv1.PedPong))
	a.Nil(cmd)
	a.Equal(chatv1.PedPong, ui.headerRoom())
	a.Empty(ui.messages)
	a.Contains(ui.headerView(), "Room: Ped Pong")

	_, cmd = ui.Update(roomInfoMsg{current: chatv1.DuckPond, active: 3, capacity: 5})
	a.Nil(cmd)
	a.Equal(chatv1.DuckPond, ui.headerRoom())
	a.Contains(ui.headerView(), "Users: 3/5")
}
