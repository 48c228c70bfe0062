package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	c "github.com/d0ngw/counterd/common"
	h "github.com/d0ngw/counterd/http"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var (
	optURL      = flag.String("url", "http://127.0.0.1:8787", "base url of counterd")
	optNames    = flag.Int("names", 4, "number of counters")
	optN        = flag.Int("n", 1000, "increments per counter")
	optWorkers  = flag.Int("workers", 32, "concurrent requests")
	optPrefix   = flag.String("prefix", "", "name prefix, a random one is used if empty")
	optTimeout  = flag.Duration("timeout", 5*time.Second, "request timeout")
	optLogLevel = flag.String("log-level", "info", "debug|info|warn|error")
)

var jsonHeader = http.Header{"Accept": []string{"application/json"}}

type countResp struct {
	Success bool `json:"success"`
	Data    struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	} `json:"data"`
	Msg string `json:"msg"`
}

func call(ctx context.Context, client *http.Client, path, name string) (int64, error) {
	status, body, err := h.GetURLWithHeader(ctx, client, strings.TrimSuffix(*optURL, "/")+path, url.Values{"name": {name}}, jsonHeader)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("%s %s status:%d,body:%s", path, name, status, body)
	}
	var resp countResp
	if err = c.JSON.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%s %s: %w", path, name, err)
	}
	if !resp.Success {
		return 0, fmt.Errorf("%s %s fail:%s", path, name, resp.Msg)
	}
	return resp.Data.Count, nil
}

func main() {
	_ = godotenv.Load()
	flag.Parse()
	if level, ok := c.ParseLogLevel(*optLogLevel); ok {
		c.SetLogLevel(level)
	}
	defer c.SyncLog()

	prefix := *optPrefix
	if prefix == "" {
		prefix = "bench-" + uuid.NewString()[:8]
	}
	names := lo.Times(*optNames, func(i int) string { return fmt.Sprintf("%s-%d", prefix, i) })
	client := &http.Client{Timeout: *optTimeout}
	ctx := context.Background()

	bases := lo.Map(names, func(name string, _ int) int64 {
		v, err := call(ctx, client, "/", name)
		if err != nil {
			c.Errorf("read %s fail:%v", name, err)
			os.Exit(1)
		}
		return v
	})

	var done int64
	start := time.Now()
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(*optWorkers)
	for i := 0; i < *optN; i++ {
		for _, name := range names {
			name := name
			eg.Go(func() error {
				if _, err := call(egCtx, client, "/increment", name); err != nil {
					return err
				}
				atomic.AddInt64(&done, 1)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		c.Errorf("increment fail after %s requests:%v", humanize.Comma(atomic.LoadInt64(&done)), err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	lost := false
	for i, name := range names {
		v, err := call(ctx, client, "/", name)
		if err != nil {
			c.Errorf("read %s fail:%v", name, err)
			os.Exit(1)
		}
		if want := bases[i] + int64(*optN); v != want {
			c.Errorf("%s count %d,expect %d", name, v, want)
			lost = true
		}
	}
	c.Infof("%s increments on %d counters in %s,%s/s", humanize.Comma(done), len(names), elapsed,
		humanize.CommafWithDigits(float64(done)/elapsed.Seconds(), 1))
	if lost {
		os.Exit(1)
	}
	c.Infof("no lost update")
}
