package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/yhlooo/pedpong/pkg/version"
)

// NewVersionOptions 创建默认的 version 子命令选项
func NewVersionOptions() VersionOptions {
	return VersionOptions{}
}

// VersionOptions version 子命令选项
type VersionOptions struct {
	// 输出格式
	// yaml 或 json ，为空时输出文本
	OutputFormat string `json:"outputFormat,omitempty" yaml:"outputFormat,omitempty"`
}

// Validate 校验选项
func (opts *VersionOptions) Validate() error {
	switch opts.OutputFormat {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format: %s (must be one of 'yaml' or 'json')", opts.OutputFormat)
	}
	return nil
}

// AddPFlags 将选项绑定到命令行
func (opts *VersionOptions) AddPFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&opts.OutputFormat, "output-format", "f", opts.OutputFormat, "Output format. One of (json, yaml).")
}

var versionTpl = template.Must(template.New("Version").Parse(`Version:   {{ .Version }}
GitCommit: {{ .GitCommit }}
GoVersion: {{ .GoVersion }}
Arch:      {{ .Arch }}
OS:        {{ .OS }}
`))

// newVersionCommand 创建 version 子命令
func newVersionCommand() *cobra.Command {
	opts := NewVersionOptions()

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			return printVersion(cmd.OutOrStdout(), opts.OutputFormat, version.GetVersionInfo())
		},
	}

	// 将选项绑定到命令行
	opts.AddPFlags(cmd.Flags())

	return cmd
}

// printVersion 按格式输出版本信息
func printVersion(w io.Writer, format string, info version.Info) error {
	switch format {
	case "json":
		raw, err := json.Marshal(info)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(info)
	default:
		return versionTpl.Execute(w, info)
	}
}
