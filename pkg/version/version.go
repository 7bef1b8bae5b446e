package version

import (
	"runtime"
	"runtime/debug"
	"strconv"
)

// ServiceName はログと /version に出すサービス名です。
const ServiceName = "gemini-design-proxy"

// ビルド時に -ldflags で埋め込みます。未設定なら debug.ReadBuildInfo の値で補います。
var (
	BuildVersion = "dev"
	GitSHA       = ""
	BuildTime    = ""
)

// Info は /version の応答です。
type Info struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	GitSHA      string `json:"git_sha,omitempty"`
	BuildTime   string `json:"build_time,omitempty"`
	VCSModified *bool  `json:"vcs_modified,omitempty"`
	GoVersion   string `json:"go_version"`
}

// Get は現在のバイナリのビルド情報を返します。
func Get() Info {
	info := Info{
		Service:   ServiceName,
		Version:   BuildVersion,
		GitSHA:    GitSHA,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitSHA == "" {
				info.GitSHA = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			if b, err := strconv.ParseBool(s.Value); err == nil && info.VCSModified == nil {
				info.VCSModified = &b
			}
		}
	}
	return info
}
