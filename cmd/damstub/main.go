package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/five82/damview/internal/stub"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:8080", "listen address")
	assets := flag.Int("assets", 60, "number of seeded assets")
	readyAfter := flag.Duration("ready-after", stub.DefaultReadyAfter, "time until a seeded thumbnail completes")
	token := flag.String("token", "", "require this bearer token (optional)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "damstub: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(gin.ReleaseMode)
	srv := stub.New(stub.Options{
		Assets:     *assets,
		ReadyAfter: *readyAfter,
		Token:      *token,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("serving", zap.String("addr", *addr), zap.Int("assets", *assets), zap.Duration("ready_after", *readyAfter))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serve", zap.Error(err))
		return 1
	}
	return 0
}
