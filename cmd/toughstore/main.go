package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/toughstore/config"
	"github.com/talkincode/toughstore/internal/adminapi"
	"github.com/talkincode/toughstore/internal/app"
	"github.com/talkincode/toughstore/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	confFile = flag.String("c", "", "config file")
	initDb   = flag.Bool("initdb", false, "drop and recreate the database schema")
)

const appVersion = "toughstore v1.0.0"

func main() {
	flag.Parse()
	if *h {
		fmt.Fprintf(os.Stderr, "%s usage:\n", appVersion)
		flag.PrintDefaults()
		return
	}
	if *showVer {
		fmt.Println(appVersion)
		return
	}

	appConfig := config.LoadConfig(*confFile)

	application := app.NewApplication(appConfig)
	application.Init(appConfig)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(application, appConfig)
	adminapi.RegisterRoutes()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Listen()
	})
	g.Go(func() error {
		<-ctx.Done()
		return webserver.Close()
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server stopped: %s", err.Error())
	}
}
