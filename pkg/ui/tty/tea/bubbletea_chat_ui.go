package tea

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
	"github.com/yhlooo/pedpong/pkg/managers"
	"github.com/yhlooo/pedpong/pkg/routetimer"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	routeCountdownStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	pedPongCountdownStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	pondBannerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
	systemMessageStyle    = lipgloss.NewStyle().Faint(true)
	senderStyle           = lipgloss.NewStyle().Faint(true).PaddingLeft(1)
	bubbleStyle           = lipgloss.NewStyle().Background(lipgloss.Color("153")).Foreground(lipgloss.Color("0")).Padding(0, 1)
)

// roomInfoMsg 房间信息变化
type roomInfoMsg struct {
	current  chatv1.RoomID
	active   int
	capacity int
}

// NewChatUI 创建聊天 UI
func NewChatUI(mgr managers.Manager) *ChatUI {
	self := mgr.Self()
	return &ChatUI{
		mgr:    mgr,
		self:   &self,
		state:  mgr.Controller().State(),
		picker: NewTransportPicker(chatv1.AllTransportTypes()),
	}
}

// ChatUI 聊天 UI
type ChatUI struct {
	ctx context.Context

	mgr      managers.Manager
	self     *metav1.ObjectMeta
	state    routetimer.State
	room     chatv1.RoomID
	active   int
	capacity int
	messages []*chatv1.Message

	width  int
	vp     viewport.Model
	input  textarea.Model
	picker TransportPicker
}

var _ tea.Model = (*ChatUI)(nil)

// Init 初始操作
func (ui *ChatUI) Init() tea.Cmd {
	return textarea.Blink
}

// Run 开始运行
func (ui *ChatUI) Run(ctx context.Context) error {
	ui.initInputBox()
	ui.vp = viewport.New(30, 5)
	ui.ctx = ctx

	msgCh, err := ui.mgr.Room().Listen(ctx, ui.self)
	if err != nil {
		return fmt.Errorf("listen messages in room error: %w", err)
	}
	defer func() { _ = msgCh.Close() }()

	updates, stopWatch := ui.mgr.Controller().Watch()
	defer stopWatch()

	if err := ui.mgr.Start(ctx); err != nil {
		return fmt.Errorf("start chat error: %w", err)
	}
	ui.syncState(ui.mgr.Controller().State())
	ui.refreshRoomInfo()

	p := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		for msg := range msgCh.Messages() {
			p.Send(msg)
		}
	}()
	go func() {
		for u := range updates {
			p.Send(u)
		}
	}()

	if _, err := p.Run(); err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return err
	}
	return nil
}

// Update 更新状态
func (ui *ChatUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := ui.ctx
	logger := logr.FromContextOrDiscard(ctx)

	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width = typed.Width
		ui.input.SetWidth(typed.Width)
		ui.picker.SetWidth(typed.Width)
		ui.vp.Width = typed.Width
		ui.layout(typed.Height)
		ui.refreshContent()
		ui.vp.GotoBottom()

	case tea.KeyMsg:
		logger.V(1).Info(fmt.Sprintf("key message: %s", typed.String()))
		switch typed.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			if err := ui.mgr.Close(ctx); err != nil {
				logger.Error(err, "leave chat error")
			}
			return ui, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab:
			ui.toggleFocus()
			return ui, nil
		}

		if ui.picker.Focused() {
			var cmd tea.Cmd
			ui.picker, cmd = ui.picker.Update(typed)
			return ui, cmd
		}

		if typed.Type == tea.KeyEnter {
			text := strings.TrimSpace(ui.input.Value())
			if text != "" {
				if err := ui.mgr.SendMessage(ctx, text); err != nil {
					logger.Error(err, "send message to room error")
				}
			}
			ui.input.Reset()
			ui.vp.GotoBottom()
			return ui, nil
		}

	case TransportSelectedMsg:
		room, err := ui.mgr.SelectTransport(ctx, typed.Type)
		if err != nil {
			logger.Error(err, fmt.Sprintf("select transport %q error", typed.Type))
			return ui, nil
		}
		logger.Info(fmt.Sprintf("transport %q selected, room: %q", typed.Type, room))
		ui.syncState(ui.mgr.Controller().State())
		return ui, nil

	case routetimer.Update:
		ui.syncState(typed.State)
		return ui, nil

	case *chatv1.Message:
		if room, ok := typed.RoomChange(); ok {
			ui.room = room
			return ui, nil
		}
		ui.messages = append(ui.messages, typed)
		ui.refreshContent()
		ui.vp.GotoBottom()
		if typed.System {
			return ui, ui.fetchRoomInfo()
		}
		return ui, nil

	case roomInfoMsg:
		ui.room, ui.active, ui.capacity = typed.current, typed.active, typed.capacity
		return ui, nil

	case error:
		logger.Error(typed, "error")
		return ui, nil
	}

	var inputCmd, vpCmd tea.Cmd
	ui.input, inputCmd = ui.input.Update(msg)
	ui.vp, vpCmd = ui.vp.Update(msg)
	return ui, tea.Batch(inputCmd, vpCmd)
}

// View 生成显示内容
func (ui *ChatUI) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ui.headerView(),
		ui.vp.View(),
		ui.picker.View(),
		fmt.Sprintf("┃ %s:", getUserShowingName(ui.self)),
		ui.input.View(),
	)
}

// headerView 生成状态栏和房间信息
func (ui *ChatUI) headerView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderStatusBar(ui.state, ui.width),
		renderRoomHeader(ui.headerRoom(), ui.active, ui.capacity),
		pondBannerStyle.Render("~ ~ ~ 🦆 ~ ~ ~"),
	)
}

// layout 根据窗口高度调整消息区高度
func (ui *ChatUI) layout(height int) {
	fixed := lipgloss.Height(ui.headerView()) +
		lipgloss.Height(ui.picker.View()) +
		1 + ui.input.Height()
	ui.vp.Height = max(height-fixed, 1)
}

// initInputBox 初始化输入框
func (ui *ChatUI) initInputBox() {
	ui.input = textarea.New()
	ui.input.Placeholder = "Type your message..."
	ui.input.Focus()
	ui.input.Prompt = "┃ "
	ui.input.CharLimit = 1024
	ui.input.SetWidth(30)
	ui.input.SetHeight(2)
	ui.input.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ui.input.ShowLineNumbers = false
	ui.input.KeyMap.InsertNewline.SetEnabled(false)
}

// toggleFocus 在输入框和交通方式选择器之间切换焦点
func (ui *ChatUI) toggleFocus() {
	if ui.picker.Focused() {
		ui.picker.Blur()
		ui.input.Focus()
		return
	}
	ui.input.Blur()
	ui.picker.Focus()
}

// syncState 同步控制器状态
func (ui *ChatUI) syncState(state routetimer.State) {
	ui.state = state
	if t, ok := state.CurrentRoom.Transport(); ok {
		ui.picker.SetSelected(t)
	}
}

// refreshContent 刷新消息区内容
func (ui *ChatUI) refreshContent() {
	ui.vp.SetContent(messagesContent(ui.messages, ui.self.ShowingName(), ui.vp.Width))
}

// headerRoom 获取房间信息中展示的房间
//
// 以房间的变更通知为准，尚未收到时使用控制器状态
func (ui *ChatUI) headerRoom() chatv1.RoomID {
	if ui.room != "" {
		return ui.room
	}
	return ui.state.CurrentRoom
}

// refreshRoomInfo 同步刷新房间信息
func (ui *ChatUI) refreshRoomInfo() {
	if msg, ok := ui.fetchRoomInfo()().(roomInfoMsg); ok {
		ui.room, ui.active, ui.capacity = msg.current, msg.active, msg.capacity
	}
}

// fetchRoomInfo 获取房间信息
func (ui *ChatUI) fetchRoomInfo() tea.Cmd {
	room := ui.mgr.Room()
	ctx := ui.ctx
	return func() tea.Msg {
		info, err := room.Info(ctx)
		if err != nil {
			return fmt.Errorf("get room info error: %w", err)
		}
		return roomInfoMsg{current: info.Current, active: len(info.Members), capacity: info.Capacity}
	}
}

// countdownLabel 获取倒计时标签
func countdownLabel(state routetimer.State) string {
	switch {
	case state.InPedPong:
		return pedPongCountdownStyle.Render("Return to route in: " + routetimer.FormatTime(state.PedPongSecondsRemaining))
	case !state.Frozen():
		return routeCountdownStyle.Render("Time to Ped Pong: " + routetimer.FormatTime(state.RouteSecondsRemaining))
	}
	return ""
}

// renderStatusBar 生成状态栏
func renderStatusBar(state routetimer.State, width int) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("Next Station: "+state.NextStation),
		"Current Status: "+state.Status,
	)
	right := countdownLabel(state)

	style := statusBarStyle
	if width > 2 {
		style = style.Width(width - 2)
		inner := width - 2 - style.GetHorizontalPadding()
		gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
		if gap > 0 {
			return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right))
		}
	}
	return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
}

// renderRoomHeader 生成房间信息
func renderRoomHeader(room chatv1.RoomID, active, capacity int) string {
	limit := "∞"
	if capacity > 0 {
		limit = strconv.Itoa(capacity)
	}
	users := fmt.Sprintf("Users: %d/%s", active, limit)
	return lipgloss.NewStyle().Bold(true).Render("Room: "+room.DisplayName()) + "  " +
		lipgloss.NewStyle().Faint(true).Render(users)
}

// messagesContent 获取消息文本形式展示的内容
func messagesContent(messages []*chatv1.Message, username string, width int) string {
	retLines := make([]string, 0, len(messages)*2)
	for _, msg := range messages {
		if msg.Hidden() {
			continue
		}

		line := lipgloss.NewStyle()
		if width > 0 {
			line = line.Width(width)
		}

		switch msg.Alignment(username) {
		case chatv1.AlignCenter:
			retLines = append(retLines, line.Align(lipgloss.Center).Render(systemMessageStyle.Render(msg.Content)))
		case chatv1.AlignRight:
			retLines = append(retLines,
				line.Align(lipgloss.Right).Render(senderStyle.Render(msg.Sender)),
				line.Align(lipgloss.Right).Render(bubbleStyle.Render(msg.Content)),
			)
		default:
			retLines = append(retLines,
				line.Align(lipgloss.Left).Render(senderStyle.Render(msg.Sender)),
				line.Align(lipgloss.Left).Render(bubbleStyle.Render(msg.Content)),
			)
		}
		retLines = append(retLines, "")
	}
	return strings.Join(retLines, "\n")
}

// getUserShowingName 获取用户展示名
func getUserShowingName(user *metav1.ObjectMeta) string {
	uid := user.UID.Short()
	if user.Name == "" {
		return lipgloss.NewStyle().Bold(true).Render(uid)
	}
	return lipgloss.NewStyle().Bold(true).Render(user.Name) + " " +
		lipgloss.NewStyle().Faint(true).Render("("+uid+")")
}
