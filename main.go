// main holds the entry logic for the feedstore CLI.
package main

import (
	"context"
	"time"

	"github.com/huangsam/feedstore/cmd"
	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/iocache"
)

// main runs the requested command, then drains and closes the feed store.
func main() {
	cmd.SetStoreManager(iocache.Manager)
	err := cmd.Execute()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if closeErr := iocache.CloseStores(ctx); closeErr != nil {
		contract.LogWarn("Cannot close feed store", closeErr)
	}

	if err != nil {
		cancel()
		contract.LogFatal("Cannot execute command", err)
	}
}
