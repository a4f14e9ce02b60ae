// Command shellsyncd runs the shell integration daemon. The configuration
// path can be set with SHELLSYNC_CONFIG; the default location is used
// otherwise.
package main

import (
	"context"
	"log"
	"os"

	"shellsync/internal/config"
	"shellsync/internal/daemonrun"
)

const configEnv = "SHELLSYNC_CONFIG"

func main() {
	cfg, resolved, exists, err := config.Load(os.Getenv(configEnv))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var opts daemonrun.Options
	if exists {
		opts.ConfigPath = resolved
	}
	if err := daemonrun.Run(context.Background(), cfg, opts); err != nil {
		log.Fatalf("shellsyncd: %v", err)
	}
}
