package main

import (
	"github.com/adequatepilot/nav-scoring-sub000/internal/cmd"
)

func main() {
	cmd.Execute()
}
