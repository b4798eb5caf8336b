// Package main is the entry point for castsync.
package main

import (
	"github.com/castsync/castsync/cmd"
	"github.com/castsync/castsync/config"
	"github.com/castsync/castsync/internal/cache"
	"github.com/castsync/castsync/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cache.CollectGarbage()

	cmd.Execute()
}
