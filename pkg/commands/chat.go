package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"text/template"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
	metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"
	"github.com/yhlooo/pedpong/pkg/managers"
	"github.com/yhlooo/pedpong/pkg/routetimer"
	uitea "github.com/yhlooo/pedpong/pkg/ui/tty/tea"
)

// NewChatOptions 创建默认 ChatOptions
func NewChatOptions() ChatOptions {
	return ChatOptions{
		Timer: routetimer.NewConfig(),
	}
}

// ChatOptions 选项
type ChatOptions struct {
	// 用户名
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// 初始交通方式
	Transport chatv1.TransportType `json:"transport,omitempty" yaml:"transport,omitempty"`
	// 房间容量， 0 表示不限
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	// 计时配置
	Timer routetimer.Config `json:"timer,omitempty" yaml:"timer,omitempty"`
	// 路线表，为空时使用默认路线表
	Routes []chatv1.Route `json:"routes,omitempty" yaml:"routes,omitempty"`

	// 配置文件路径
	ConfigFile string `json:"-" yaml:"-"`
}

// AddPFlags 将选项绑定到命令行参数
func (o *ChatOptions) AddPFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Name, "name", "n", o.Name, "Your name")
	fs.StringVarP((*string)(&o.Transport), "transport", "t", string(o.Transport),
		"Initial transport type. One of (bike, car, location, bus).")
	fs.IntVar(&o.Capacity, "capacity", o.Capacity, "Room capacity, 0 means unlimited")
	fs.IntVar(&o.Timer.RouteSeconds, "route-seconds", o.Timer.RouteSeconds, "Seconds on route before diverting to Ped Pong")
	fs.IntVar(&o.Timer.PedPongSeconds, "ped-pong-seconds", o.Timer.PedPongSeconds, "Seconds at Ped Pong before returning to route")
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to a YAML config file. Flags take precedence over it.")
}

// LoadConfigFile 从配置文件加载选项，已通过命令行设置的选项保持不变
func (o *ChatOptions) LoadConfigFile(fs *pflag.FlagSet) error {
	if o.ConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(o.ConfigFile)
	if err != nil {
		return fmt.Errorf("read config file %q error: %w", o.ConfigFile, err)
	}
	fileOpts := ChatOptions{}
	if err := yaml.Unmarshal(data, &fileOpts); err != nil {
		return fmt.Errorf("parse config file %q error: %w", o.ConfigFile, err)
	}

	changed := func(name string) bool {
		return fs != nil && fs.Changed(name)
	}
	if !changed("name") && fileOpts.Name != "" {
		o.Name = fileOpts.Name
	}
	if !changed("transport") && fileOpts.Transport != "" {
		o.Transport = fileOpts.Transport
	}
	if !changed("capacity") && fileOpts.Capacity != 0 {
		o.Capacity = fileOpts.Capacity
	}
	if !changed("route-seconds") && fileOpts.Timer.RouteSeconds != 0 {
		o.Timer.RouteSeconds = fileOpts.Timer.RouteSeconds
	}
	if !changed("ped-pong-seconds") && fileOpts.Timer.PedPongSeconds != 0 {
		o.Timer.PedPongSeconds = fileOpts.Timer.PedPongSeconds
	}
	if fileOpts.Timer.DefaultStatus != "" {
		o.Timer.DefaultStatus = fileOpts.Timer.DefaultStatus
	}
	if fileOpts.Timer.DefaultNextStation != "" {
		o.Timer.DefaultNextStation = fileOpts.Timer.DefaultNextStation
	}
	if len(fileOpts.Routes) > 0 {
		o.Routes = fileOpts.Routes
	}
	return nil
}

// Validate 校验选项
func (o *ChatOptions) Validate() error {
	if o.Transport != "" && !o.Transport.Valid() {
		return fmt.Errorf("invalid transport: %q (expected one of %v)", o.Transport, chatv1.AllTransportTypes())
	}
	if o.Capacity < 0 {
		return fmt.Errorf("invalid capacity: %d (expected >= 0)", o.Capacity)
	}
	if err := o.Timer.Validate(); err != nil {
		return fmt.Errorf("invalid timer config: %w", err)
	}
	return nil
}

// ManagerOptions 生成管理器选项
//
// room 非空时作为初始房间，否则使用所选交通方式对应的路线
func (o *ChatOptions) ManagerOptions(room chatv1.RoomID) (managers.Options, error) {
	routes := o.Routes
	if len(routes) == 0 {
		routes = chatv1.DefaultRoutes()
	}

	if room == "" && o.Transport != "" {
		route, ok := chatv1.FindRoute(routes, o.Transport)
		if !ok {
			return managers.Options{}, fmt.Errorf("%w: %q", managers.ErrUnknownTransport, o.Transport)
		}
		room = route.Room
	}

	return managers.Options{
		Self: metav1.ObjectMeta{
			UID:  metav1.NewUID(),
			Name: o.Name,
		},
		InitialRoom: room,
		Capacity:    o.Capacity,
		Routes:      routes,
		Timer:       o.Timer,
	}, nil
}

var chatExampleTpl = template.Must(template.New("ChatCommand").
	Parse(`# Start on the first route of the catalog
{{ .CommandName }}

# Start on the route of a transport type
{{ .CommandName }} -n alice -t bus

# Join a specific room
{{ .CommandName }} duck_pond

# Use shorter countdowns from a config file
{{ .CommandName }} --config ./pedpong.yaml
`))

func newChatCommand(parentName string) *cobra.Command {
	exampleBuff := &bytes.Buffer{}
	if err := chatExampleTpl.Execute(exampleBuff, map[string]interface{}{
		"CommandName": parentName + " chat",
	}); err != nil {
		panic(err)
	}

	opts := NewChatOptions()

	cmd := &cobra.Command{
		Use:     "chat [ROOM]",
		Short:   "Start chat",
		Example: exampleBuff.String(),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.LoadConfigFile(cmd.Flags()); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			var room chatv1.RoomID
			if len(args) > 0 {
				room = chatv1.RoomID(args[0])
			}
			return runChat(cmd.Context(), opts, room)
		},
	}

	opts.AddPFlags(cmd.Flags())

	return cmd
}

// runChat 运行聊天
func runChat(ctx context.Context, opts ChatOptions, room chatv1.RoomID) error {
	logger := logr.FromContextOrDiscard(ctx)

	mgrOpts, err := opts.ManagerOptions(room)
	if err != nil {
		return err
	}
	mgr, err := managers.NewManager(mgrOpts)
	if err != nil {
		return fmt.Errorf("init manager error: %w", err)
	}
	defer func() {
		if err := mgr.Close(ctx); err != nil {
			logger.Error(err, "close manager error")
		}
	}()

	ui := uitea.NewChatUI(mgr)
	return ui.Run(ctx)
}
