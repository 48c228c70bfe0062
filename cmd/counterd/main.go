package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/d0ngw/counterd/app"
	c "github.com/d0ngw/counterd/common"
	"github.com/joho/godotenv"
)

var (
	version string
)

var (
	optConf     = flag.String("conf", "conf/counterd.yaml", "comma separated yaml config files")
	optLogLevel = flag.String("log-level", "", "debug|info|warn|error, override the log level in conf")
)

func main() {
	// .env is optional
	_ = godotenv.Load()
	flag.Parse()

	var pathes []string
	for _, p := range strings.Split(*optConf, ",") {
		if p = strings.TrimSpace(p); p != "" {
			pathes = append(pathes, p)
		}
	}
	conf, err := app.LoadConfig("", pathes...)
	if err != nil {
		c.Errorf("load conf %s fail,err:%v", *optConf, err)
		os.Exit(1)
	}
	if *optLogLevel != "" {
		level, ok := c.ParseLogLevel(*optLogLevel)
		if !ok {
			c.Errorf("invalid log level %s", *optLogLevel)
			os.Exit(1)
		}
		c.SetLogLevel(level)
	}
	c.Infof("%s ver=%s, args=%s", filepath.Base(os.Args[0]), version, os.Args)

	counterd, err := app.New(context.Background(), conf)
	if err != nil {
		c.Errorf("create app fail,err:%v", err)
		os.Exit(1)
	}
	if err = counterd.Start(); err != nil {
		c.Errorf("start app fail,err:%v", err)
		counterd.Stop()
		os.Exit(1)
	}

	hook := c.NewShutdownhook()
	hook.AddHook(func() {
		if err := counterd.Stop(); err != nil {
			c.Errorf("stop app fail,err:%v", err)
		}
	})
	hook.WaitShutdown()
}
