package version

// Version is the build version, overridden at link time with
// -ldflags "-X github.com/wangxiyuan/pr-notification/version.Version=...".
var Version = "dev"
