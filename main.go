// Package main is the entry point for the githeat CLI.
package main

import (
	"github.com/huangsam/githeat/cmd"
	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/internal/iocache"
)

func main() {
	cmd.SetRunManager(iocache.Manager)
	defer iocache.CloseRunTracking()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Cannot stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("githeat failed", err)
	}
}
