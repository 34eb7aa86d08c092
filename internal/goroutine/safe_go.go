package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/skillbridge-backend/internal/logger"
)

// SafeGo запускает горутину с обработкой panic. Паника логируется вместе со стеком
// и не роняет процесс.
func SafeGo(name string, fn func()) {
	go func() {
		defer recoverPanic(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer recoverPanic(name)
		fn(ctx)
	}()
}

func recoverPanic(name string) {
	if r := recover(); r != nil {
		logger.WithComponent(name).
			WithField("panic", r).
			WithField("stack", string(debug.Stack())).
			Error("паника в горутине")
	}
}
