package main

import (
	"log"
	"os"

	"github.com/somalms/soma/core"
	logsvc "github.com/somalms/soma/services/logger"
)

func main() {
	defer os.Exit(0)

	std := log.New(os.Stdout, "PORTAL : ", log.LstdFlags|log.Lmicroseconds)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatal(err)
	}

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	app := newApplication(conf, logger)
	if err := app.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", core.ErrorMessage(err))
		}
		os.Exit(1)
	}
}
