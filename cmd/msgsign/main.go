package main

import (
	"os"

	"github.com/yolodolo42/msgsign/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
