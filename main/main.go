package main

import (
	"github.com/karios/mission-control/config"
	"github.com/karios/mission-control/logging"
	"github.com/karios/mission-control/transport"
)

func main() {
	l := logging.InitLogger()
	l.Infoln("hi")

	conf := config.GetConfig(l)
	if conf.GraylogAddr != "" {
		logging.AttachGraylog(l, conf.GraylogAddr)
	}

	transport.InitApp(l, conf)
}
