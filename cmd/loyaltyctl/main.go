package main

import (
	"github.com/matthieukhl/loyaltyctl/internal/cmd"
)

func main() {
	cmd.Execute()
}
