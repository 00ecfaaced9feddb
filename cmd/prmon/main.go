package main

import (
	"github.com/wangxiyuan/pr-notification/cmd/prmon/cmd"
	"github.com/wangxiyuan/pr-notification/version"
)

func main() {
	cmd.SetVersion(version.Version)
	cmd.Execute()
}
