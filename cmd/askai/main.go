package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ccastromar/askai/internal/app"
	"github.com/ccastromar/askai/internal/config"
	"github.com/ccastromar/askai/internal/logx"
)

// runner is the minimal interface our app must satisfy for running.
type runner interface{ Run(context.Context) error }

// appCtor is a constructor indirection to enable testing without launching the real app.
// The returned closer releases the log file.
var appCtor = func(ctx context.Context, port string) (runner, io.Closer, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, nil, err
	}
	if port != "" {
		env.Port = port
	}
	closer, err := logx.Init(logx.Options{
		Level:  env.LogLevel,
		Format: env.LogFormat,
		File:   env.LogFile,
		Color:  env.ColorLogs(),
	})
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, env)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return a, closer, nil
}

// fatalf indirection allows testing fatal paths without exiting the test process.
var fatalf = func(format string, v ...any) {
	logx.Error("App", format, v...)
	os.Exit(1)
}

func run(ctx context.Context, port string) {
	a, closer, err := appCtor(ctx, port)
	if err != nil {
		fatalf("error initializing app: %v", err)
		return
	}
	defer closer.Close()
	if err := a.Run(ctx); err != nil {
		fatalf("error running app: %v", err)
		return
	}
}

func main() {
	port := flag.String("port", "", "HTTP port to listen on (overrides PORT)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	run(ctx, *port)
}
