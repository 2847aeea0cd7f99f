package main

import (
	"os"

	"github.com/Johnmc130/SerenVoice/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
