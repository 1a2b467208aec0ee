package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpbite/internal/app"
)

const shutdownTimeout = 10 * time.Second

func main() {
	otpService := app.New()
	<-otpService.Start()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	otpService.Stop(ctx)
}
