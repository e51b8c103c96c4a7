package v1

import (
	"strings"

	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
)

const (
	// SystemSender 系统消息发送人
	SystemSender = "System"
	// ReturnCommand 自动返回路线时发送的控制消息
	ReturnCommand = "/return"

	systemPrefix     = SystemSender + ":"
	roomChangePrefix = "ROOM_CHANGE:"
)

// Alignment 消息在消息流中的对齐方式
type Alignment int

const (
	// AlignLeft 其他人的消息
	AlignLeft Alignment = iota
	// AlignCenter 系统消息
	AlignCenter
	// AlignRight 自己的消息
	AlignRight
)

// Message 消息
//
// 线上格式为 "sender:content" 或 "System:content"
type Message struct {
	Meta metav1.ObjectMeta `json:"meta,omitempty"`

	// 发送人
	Sender string `json:"sender,omitempty"`
	// 消息内容
	Content string `json:"content,omitempty"`
	// 是否系统消息
	System bool `json:"system,omitempty"`
}

// NewTextMessage 创建用户文本消息
func NewTextMessage(sender, content string) *Message {
	return &Message{Sender: sender, Content: content}
}

// NewSystemMessage 创建系统消息
func NewSystemMessage(content string) *Message {
	return &Message{Sender: SystemSender, Content: content, System: true}
}

// NewRoomChangeMessage 创建房间变更通知消息，该消息不在消息流中展示
func NewRoomChangeMessage(room RoomID) *Message {
	return NewSystemMessage(roomChangePrefix + string(room))
}

// ParseMessage 解析线上格式的消息
func ParseMessage(raw string) *Message {
	if strings.HasPrefix(raw, systemPrefix) {
		return NewSystemMessage(raw[len(systemPrefix):])
	}
	sender, content, _ := strings.Cut(raw, ":")
	return NewTextMessage(sender, content)
}

// String 返回线上格式
func (msg *Message) String() string {
	if msg.System {
		return systemPrefix + msg.Content
	}
	return msg.Sender + ":" + msg.Content
}

// Hidden 是否不在消息流中展示
func (msg *Message) Hidden() bool {
	return strings.HasPrefix(strings.TrimSpace(msg.Content), roomChangePrefix)
}

// RoomChange 返回房间变更通知中的房间
func (msg *Message) RoomChange() (RoomID, bool) {
	if !msg.System {
		return "", false
	}
	room, ok := strings.CutPrefix(strings.TrimSpace(msg.Content), roomChangePrefix)
	return RoomID(room), ok
}

// IsReturnCommand 是否自动返回路线的控制消息
func (msg *Message) IsReturnCommand() bool {
	return !msg.System && strings.TrimSpace(msg.Content) == ReturnCommand
}

// Alignment 获取消息相对于 username 的对齐方式
func (msg *Message) Alignment(username string) Alignment {
	switch {
	case msg.System:
		return AlignCenter
	case msg.Sender == username:
		return AlignRight
	default:
		return AlignLeft
	}
}

// DeepCopy 深拷贝
func (msg *Message) DeepCopy() *Message {
	if msg == nil {
		return nil
	}
	return &Message{
		Meta:    *msg.Meta.DeepCopy(),
		Sender:  msg.Sender,
		Content: msg.Content,
		System:  msg.System,
	}
}
