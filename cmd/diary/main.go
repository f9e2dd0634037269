package main

import (
	"context"

	"github.com/charlieverse/diary/internal/cli"
)

func main() {
	ctx := context.Background()
	cli.Main(ctx)
}
