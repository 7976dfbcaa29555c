package transport

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/gorilla/securecookie"
	"github.com/karios/mission-control/config"
	"github.com/karios/mission-control/logging"
	"github.com/karios/mission-control/service"
	"github.com/karios/mission-control/utils"
	"github.com/sirupsen/logrus"
)

// App is App
type App struct {
	Conf    *config.Config
	CC      utils.CookieCutter
	Service *service.ConsoleService
	decoder *schema.Decoder
}

func InitApp(l *logrus.Logger, conf *config.Config) {
	l.Infoln("initializing the console")
	router := mux.NewRouter()
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", conf.Port),
		Handler: logging.LogRequestHandler(logrus.NewEntry(l), router),
	}

	decoder := schema.NewDecoder()
	decoder.ZeroEmpty(false)
	decoder.IgnoreUnknownKeys(true)

	a := &App{
		Conf: conf,
		CC: utils.CookieCutter{
			Previous: securecookie.New([]byte(conf.SecurecookieHashKeyPrevious), []byte(conf.SecurecookieBlockKeyPrevious)),
			Current:  securecookie.New([]byte(conf.SecurecookieHashKeyCurrent), []byte(conf.SecurecookieBlockKeyCurrent)),
		},
		Service: service.New(l, conf.MainAppAPIURL,
			time.Duration(conf.APIRequestTimeoutSeconds)*time.Second, conf.TokenFilePath),
		decoder: decoder,
	}

	a.Service.SetInvalidateHandler(func() {
		l.Infoln("session invalidated, operator has to authenticate again")
	})

	l.Infoln("attempting silent session restore...")
	ctx := context.WithValue(context.Background(), utils.CtxKeys.Log, l)
	a.Service.RestoreSession(ctx)

	l.WithField("port", conf.Port).Infoln("starting the console...")

	go func() {
		a.handleRequests(l, srv, router)
	}()

	term := make(chan os.Signal, 1)
	signal.Notify(term, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-term
	l.Infoln("signal received")

	l.Infoln("shutting down the console...")
	if err := srv.Shutdown(context.Background()); err != nil {
		l.WithError(err).Errorln("console shutdown failed")
	}

	l.Infoln("goodbye")
}
