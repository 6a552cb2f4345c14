package worker

import (
	"context"
	"log"
)

// Logger is the pool's per-job completion log; the default prints to
// stdout, callers may swap in a structured one.
type Logger interface {
	Info(ctx context.Context, msg string)
}

type stdOut struct{}

func (*stdOut) Info(ctx context.Context, msg string) {
	log.Println(msg)
}
