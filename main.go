package main

import (
	"github.com/sidkik/libsync/cmd"
	"github.com/sidkik/libsync/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
