package main

import (
	"context"
	"fmt"
	"hockeystats-backend/cmd/stanleycup/commands"
	"hockeystats-backend/lib/telemetry"
	"hockeystats-backend/lib/util/serviceutil"
	"log/slog"
	"os"
)

func main() {
	ctx, cancel := serviceutil.SignalContext(context.Background())

	tel, err := telemetry.SetupFromEnv(ctx, "stanleycup")
	if err != nil {
		cancel()
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	cmdErr := commands.ExecuteContext(ctx)
	cancel()

	err = tel.Shutdown(context.Background())
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
	if cmdErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", cmdErr)
		os.Exit(1)
	}
}
