package cmd

import (
	"github.com/achilleasa/go-daylight/log"
	"github.com/urfave/cli"
)

var logger = log.New("daylight")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
