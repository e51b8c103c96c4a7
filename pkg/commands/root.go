package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yhlooo/pedpong/pkg/log"
	"github.com/yhlooo/pedpong/pkg/version"
)

// NewGlobalOptions 创建一个默认 GlobalOptions
func NewGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Verbosity: 0,
		LogFile:   log.DefaultFilePath(),
	}
}

// GlobalOptions 全局选项
type GlobalOptions struct {
	// 日志数量级别（ 0 / 1 / 2 ）
	Verbosity uint32
	// 是否开启调试模式
	Debug bool
	// chat 子命令的日志文件路径
	LogFile string
}

// Validate 校验选项是否合法
func (o *GlobalOptions) Validate() error {
	if o.Verbosity > 2 {
		return fmt.Errorf("invalid log verbosity: %d (expected: 0, 1 or 2)", o.Verbosity)
	}
	return nil
}

// AddPFlags 将选项绑定到命令行参数
func (o *GlobalOptions) AddPFlags(fs *pflag.FlagSet) {
	fs.Uint32VarP(&o.Verbosity, "verbose", "v", o.Verbosity, "Number for the log level verbosity (0, 1, or 2)")
	fs.BoolVar(&o.Debug, "debug", false, "Run in debug mode")
	fs.StringVar(&o.LogFile, "log-file", o.LogFile, "Log file used by chat when --debug or --verbose is set")
}

// openLogWriter 获取命令的日志输出，返回的 io.Closer 在命令结束时关闭
func openLogWriter(cmdName string, opts GlobalOptions) (io.Writer, io.Closer, error) {
	switch cmdName {
	case "chat":
		// 全屏 UI 运行时日志不能输出到终端
		if !opts.Debug && opts.Verbosity < 1 {
			return io.Discard, nil, nil
		}
		f, err := log.OpenFile(opts.LogFile)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	default:
		return os.Stderr, nil, nil
	}
}

// NewCommand 创建根命令
func NewCommand(name string) *cobra.Command {
	globalOpts := NewGlobalOptions()
	var logCloser io.Closer

	cmd := &cobra.Command{
		Use:           name,
		Short:         "Route chat rooms with a timed stop at Ped Pong.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := globalOpts.Validate(); err != nil {
				return err
			}

			logWriter, closer, err := openLogWriter(cmd.Name(), globalOpts)
			if err != nil {
				return err
			}
			logCloser = closer

			verbosity := globalOpts.Verbosity
			if globalOpts.Debug && verbosity < 1 {
				verbosity = 1
			}
			cmd.SetContext(logr.NewContext(ctx, log.NewLogger(logWriter, verbosity)))

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser == nil {
				return nil
			}
			err := logCloser.Close()
			logCloser = nil
			return err
		},
	}

	globalOpts.AddPFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newChatCommand(name),
		newRoomsCommand(),
		newVersionCommand(),
	)

	return cmd
}
