package main

import (
	"context"

	"github.com/ijalalfrz/award-search-crawler/cmd/crawl/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
