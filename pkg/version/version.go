package version

import "runtime"

var (
	// Version 版本号，构建时通过 -ldflags 注入
	Version = "0.0.0-dev"
	// GitCommit 构建时的 Git 提交
	GitCommit = "unknown"
)

// Info 版本信息
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Arch      string `json:"arch" yaml:"arch"`
	OS        string `json:"os" yaml:"os"`
}

// GetVersionInfo 获取版本信息
func GetVersionInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Arch:      runtime.GOARCH,
		OS:        runtime.GOOS,
	}
}
