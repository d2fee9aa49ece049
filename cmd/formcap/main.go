package main

import (
	"context"

	"jetcargo-backend/cmd/formcap/commands"
	"jetcargo-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "formcap")
	defer telemetry.Shutdown(context.Background())
	commands.ExecuteContext(context.Background())
}
