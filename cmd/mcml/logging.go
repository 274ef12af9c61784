package main

import (
	"github.com/urfave/cli"

	"github.com/lukaszgryglicki/mcml/internal/log"
	"github.com/lukaszgryglicki/mcml/internal/mcml"
)

var logger = log.New("mcml-cli")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	if mcml.Debug {
		log.SetLevel(log.Debug)
	}
}
