// Command levi checks a SNOMED CT translation extension against a terminology
// database and writes the delta report of the chosen job.
//
// A .env file in the working directory is loaded before the configuration.
// SIGINT and SIGTERM stop the run between records; partial results are
// reported but no artifacts are written.
//
// Exit codes: 0 = success, 1 = run failed, 2 = configuration invalid,
// 3 = cancelled.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}
