package main

import (
	"voicescribe/cmd/voicescribe/cmd"
)

// @title           voicescribe API
// @version         1.0
// @description     Upload audio, get a transcript back, browse the history.

// @contact.name   voicescribe maintainers

// @license.name  MIT

// @host      localhost:5000
// @BasePath  /api

func main() {
	cmd.Execute()
}
