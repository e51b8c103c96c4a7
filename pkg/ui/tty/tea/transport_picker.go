package tea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
)

// transportPickerColumns 选择器每行按钮数
const transportPickerColumns = 2

var (
	transportButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("250")).
				Padding(0, 1)
	transportSelectedStyle = transportButtonStyle.
				BorderForeground(lipgloss.Color("208")).
				Background(lipgloss.Color("223")).
				Foreground(lipgloss.Color("0"))
)

// TransportSelectedMsg 选择了交通方式
type TransportSelectedMsg struct {
	Type chatv1.TransportType
}

// NewTransportPicker 创建交通方式选择器
func NewTransportPicker(types []chatv1.TransportType) TransportPicker {
	return TransportPicker{types: types}
}

// TransportPicker 交通方式选择器
type TransportPicker struct {
	types    []chatv1.TransportType
	cursor   int
	selected chatv1.TransportType
	focused  bool
	width    int
}

// Focus 获取焦点
func (p *TransportPicker) Focus() {
	p.focused = true
}

// Blur 失去焦点
func (p *TransportPicker) Blur() {
	p.focused = false
}

// Focused 是否有焦点
func (p *TransportPicker) Focused() bool {
	return p.focused
}

// Selected 获取已选择的交通方式
func (p *TransportPicker) Selected() chatv1.TransportType {
	return p.selected
}

// SetSelected 设置已选择的交通方式，并将光标移到该项
func (p *TransportPicker) SetSelected(t chatv1.TransportType) {
	p.selected = t
	for i, item := range p.types {
		if item == t {
			p.cursor = i
			return
		}
	}
}

// SetWidth 设置宽度
func (p *TransportPicker) SetWidth(width int) {
	p.width = width
}

// Update 处理按键
func (p TransportPicker) Update(msg tea.Msg) (TransportPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused || len(p.types) == 0 {
		return p, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		if p.cursor%transportPickerColumns > 0 {
			p.cursor--
		}
	case "right", "l":
		if p.cursor%transportPickerColumns < transportPickerColumns-1 && p.cursor+1 < len(p.types) {
			p.cursor++
		}
	case "up", "k":
		if p.cursor-transportPickerColumns >= 0 {
			p.cursor -= transportPickerColumns
		}
	case "down", "j":
		if p.cursor+transportPickerColumns < len(p.types) {
			p.cursor += transportPickerColumns
		}
	case "enter", " ":
		selected := p.types[p.cursor]
		p.selected = selected
		return p, func() tea.Msg {
			return TransportSelectedMsg{Type: selected}
		}
	}
	return p, nil
}

// View 生成显示内容
func (p TransportPicker) View() string {
	buttonWidth := 0
	if p.width > 0 {
		buttonWidth = p.width/transportPickerColumns - 2
	}

	rows := make([]string, 0, (len(p.types)+transportPickerColumns-1)/transportPickerColumns)
	var row []string
	for i, t := range p.types {
		style := transportButtonStyle
		if t == p.selected {
			style = transportSelectedStyle
		}
		if buttonWidth > 0 {
			style = style.Width(buttonWidth)
		}
		label := string(t) + " " + t.Label()
		if p.focused && i == p.cursor {
			label = "> " + label
			style = style.Bold(true)
		}
		row = append(row, style.Render(label))
		if len(row) == transportPickerColumns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
