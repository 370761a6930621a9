package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/ccastromar/askai/internal/cli"
	"github.com/ccastromar/askai/internal/config"
	"github.com/ccastromar/askai/internal/llm"
	"github.com/ccastromar/askai/internal/logx"
)

// Logs go to a file so they never interleave with the conversation.
const defaultLogFile = "askai-cli.log"

var newAsker = func(ctx context.Context, s llm.Settings) (cli.Asker, error) {
	c, err := llm.New(ctx, s)
	if err != nil {
		return nil, err
	}
	return c, nil
}

var exit = os.Exit

func run(ctx context.Context, in io.Reader, out, errOut io.Writer) int {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(errOut, "config error: %v\n", err)
		return 1
	}

	logFile := env.LogFile
	if logFile == "" {
		logFile = defaultLogFile
	}
	closer, err := logx.Init(logx.Options{Level: env.LogLevel, Format: env.LogFormat, File: logFile})
	if err != nil {
		fmt.Fprintf(errOut, "log setup error: %v\n", err)
		return 1
	}
	defer closer.Close()

	asker, err := newAsker(ctx, env.LLMSettings())
	if err != nil {
		fmt.Fprintf(errOut, "backend error: %v\n", err)
		return 1
	}

	s := cli.NewSession(asker, in, out, cli.Options{
		ExitKeyword: env.ExitKeyword,
		Styled:      isTerminal(out),
	})
	if err := s.Run(ctx); err != nil {
		logx.Error("CLI", "session ended: %v", err)
		fmt.Fprintf(errOut, "%v\n", err)
		return 1
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stdin, os.Stdout, os.Stderr)
	stop()
	exit(code)
}
