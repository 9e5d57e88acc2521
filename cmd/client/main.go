// cmd/client/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/config"
	pb "github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/grpc/proto"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/screens"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		panic(err)
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	addr := os.Getenv("DISPATCH_SERVER_ADDR")
	if addr == "" {
		addr = "localhost" + cfg.Server.Addr()
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("failed to create client", zap.String("addr", addr), zap.Error(err))
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []screens.Option{screens.WithLogger(logger)}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		opts = append(opts, screens.WithPasswordReader(func() (string, error) {
			pw, err := term.ReadPassword(fd)
			fmt.Println()
			return string(pw), err
		}))
	}

	flow := screens.NewFlow(pb.NewDispatchServiceClient(conn), os.Stdin, os.Stdout, opts...)
	if err := flow.Run(ctx); err != nil {
		logger.Fatal("client error", zap.Error(err))
	}
}
