package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/zplctl/internal/logging"
	"github.com/danmuck/zplctl/internal/observability"
	"github.com/danmuck/zplctl/internal/server"
)

func main() {
	addr := flag.String("addr", ":9100", "listen address")
	origins := flag.String("cors-origins", "", "comma-separated allowed CORS origins")
	flag.Parse()

	logger := logging.New("bridgectl")
	observability.RegisterMetrics()

	srv := server.New(logger, splitOrigins(*origins))
	if err := srv.Run(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "bridgectl: %v\n", err)
		os.Exit(1)
	}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
