package main

import (
	"context"
	"os"

	"github.com/earthfail/go-jfif-codec/cmd/jfifdec/cmd"
)

// gitsha is stamped by the build
var gitsha = "dev"

func main() {
	if err := cmd.NewRoot(context.Background(), gitsha).Execute(); err != nil {
		os.Exit(1)
	}
}
