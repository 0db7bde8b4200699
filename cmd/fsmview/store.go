package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/fsmview/pkg/adapters/memory"
	"github.com/aretw0/fsmview/pkg/adapters/redis"
	"github.com/aretw0/fsmview/pkg/ports"
)

// redisAddrEnv provides the store address when --redis-addr is not given.
const redisAddrEnv = "FSMVIEW_REDIS_ADDR"

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis-addr", "", "Redis address for the machine registry (env "+redisAddrEnv+"); in-memory when empty")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database")
	cmd.Flags().String("redis-prefix", redis.DefaultPrefix, "Key prefix for stored machines")
	cmd.Flags().Duration("ttl", 0, "Forget machines not updated for this long (0 keeps them)")
}

// openStore returns the configured snapshot store and a func releasing it.
func openStore(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (ports.SnapshotStore, func(), error) {
	addr, _ := cmd.Flags().GetString("redis-addr")
	if addr == "" {
		addr = os.Getenv(redisAddrEnv)
	}
	if addr == "" {
		logger.Info("using in-memory machine registry")
		return memory.NewStore(), func() {}, nil
	}

	password, _ := cmd.Flags().GetString("redis-password")
	db, _ := cmd.Flags().GetInt("redis-db")
	prefix, _ := cmd.Flags().GetString("redis-prefix")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	store := redis.New(addr, password, db, redis.WithPrefix(prefix), redis.WithTTL(ttl))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}

	logger.Info("using redis machine registry", "addr", addr, "db", db, "prefix", prefix, "ttl", ttl)
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close redis client", "err", err)
		}
	}, nil
}
