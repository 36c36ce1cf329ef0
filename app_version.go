package main

import (
	"runtime/debug"
)

// set with -ldflags "-X main.appVer=..."
var appVer = ""

// appVersion prefers the module version recorded by go install, then the
// ldflags value, then the VCS revision the binary was built from.
func appVersion() string {
	info, ok := debug.ReadBuildInfo()
	if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	if appVer != "" {
		return appVer
	}
	if ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				return "devel-" + s.Value[:12]
			}
		}
	}
	return "#UNAVAILABLE"
}
