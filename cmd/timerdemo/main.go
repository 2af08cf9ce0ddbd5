package main

import (
	"flag"
	"sync/atomic"
	"time"

	"github.com/nm-morais/go-timer/configs"
	"github.com/nm-morais/go-timer/pkg/executor"
	"github.com/nm-morais/go-timer/pkg/logs"
	"github.com/nm-morais/go-timer/pkg/timer"
)

func main() {
	var configPath string
	var poolSize int
	var verbose bool
	flag.StringVar(&configPath, "config", "", "path to a JSON config file")
	flag.IntVar(&poolSize, "pool", -1, "worker pool size, 0 runs callbacks on a serial queue")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	config := configs.DefaultConfig()
	if configPath != "" {
		config = configs.ReadConfigFromFile(configPath)
	}
	if poolSize >= 0 {
		config.PoolSize = poolSize
	}
	if verbose {
		config.LogLevel = "debug"
	}
	if err := logs.ParseLevel(config.LogLevel); err != nil {
		panic(err)
	}
	logger := logs.NewLogger("timerdemo")

	var exec executor.Executor
	if config.PoolSize > 0 {
		pool, err := executor.NewPool(config.PoolSize)
		if err != nil {
			panic(err)
		}
		defer pool.Close()
		exec = pool
	} else {
		queue := executor.NewQueue("demo", config.QueueSize)
		defer queue.Close()
		exec = queue
	}

	var ticks int32
	periodic := timer.New(exec)
	periodic.Start(config.Interval, func() {
		logger.Infof("tick %d", atomic.AddInt32(&ticks, 1))
	})
	periodic.After(config.AfterDelay, func() {
		logger.Infof("after %s", config.AfterDelay)
	})
	periodic.After(2*config.Interval+config.Interval/2, func() {
		logger.Info("pausing periodic timer")
		periodic.Pause()
		periodic.After(2*config.Interval, func() {
			logger.Info("restarting periodic timer")
			periodic.Restart()
		})
	})

	countdown := timer.New(exec)
	countdown.Countdown(config.CountdownTotal, config.CountdownRepeat, func() {
		logger.Infof("countdown fired, %s left", countdown.Remaining())
	})

	time.Sleep(config.RunFor)
	periodic.Stop()
	countdown.Stop()
	logger.Infof("done after %d ticks", atomic.LoadInt32(&ticks))
}
