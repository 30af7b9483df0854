// Command hubctl is the operator CLI of the hub: schema migration, manual
// redemptions, coin awards and notifications.
package main

import (
	"fmt" // Output formatting
	"io"  // Prompt streams
	"os"  // Process exit

	"ejn_hub/internal/config"   // Environment configuration
	"ejn_hub/internal/db"       // Database connection
	"ejn_hub/internal/realtime" // Change feed
	"ejn_hub/internal/store"    // Data layer

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"github.com/spf13/cobra"       // Command tree
	"gorm.io/gorm"                 // GORM ORM library
)

// app carries what the subcommands share once the root command opened the database
type app struct {
	verbose bool
	driver  string // --db-driver override
	dsn     string // --dsn override
	redis   string // --redis override

	conn  *gorm.DB
	rdb   *redis.Client // nil without Redis
	store *store.Store
	log   *logrus.Logger
}

// connectRedis opens the cache and change feed when an address is configured
func (a *app) connectRedis(cmd *cobra.Command, cfg *config.Config) (store.Publisher, error) {
	addr := cfg.RedisAddr
	if a.redis != "" {
		addr = a.redis
	}
	if addr == "" {
		a.log.Debug("REDIS_ADDR not set: cache invalidation and realtime disabled")
		return nil, nil
	}
	a.rdb = redis.NewClient(&redis.Options{
		Addr:     addr,          // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	if err := a.rdb.Ping(cmd.Context()).Err(); err != nil {
		_ = a.rdb.Close()
		a.rdb = nil
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}
	return realtime.NewBroker(a.rdb), nil
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "hubctl",
		Short:         "Operate the EJN hub database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logrus.New()
			a.log.SetOutput(cmd.ErrOrStderr())
			a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			if a.verbose {
				a.log.SetLevel(logrus.DebugLevel)
			}
			cfg := config.LoadConfig()
			driver, dsn := cfg.DBDriver, cfg.DSN()
			if a.driver != "" {
				driver = a.driver
			}
			if a.dsn != "" {
				dsn = a.dsn
			}
			conn, err := db.OpenDSN(driver, dsn, !a.verbose)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			a.conn = conn
			pub, err := a.connectRedis(cmd, cfg)
			if err != nil {
				if sqlDB, dbErr := conn.DB(); dbErr == nil {
					_ = sqlDB.Close() // PostRun is skipped on error
				}
				return err
			}
			a.store = store.New(conn, pub)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.rdb != nil {
				_ = a.rdb.Close()
			}
			if a.conn == nil {
				return
			}
			if sqlDB, err := a.conn.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging and SQL output")
	root.PersistentFlags().StringVar(&a.driver, "db-driver", "", "override DB_DRIVER (mysql, postgres, sqlite)")
	root.PersistentFlags().StringVar(&a.dsn, "dsn", "", "override the data source built from DB_* variables")
	root.PersistentFlags().StringVar(&a.redis, "redis", "", "override REDIS_ADDR")

	root.AddCommand(
		newMigrateCmd(a),
		newRedeemCmd(a),
		newAwardCmd(a),
		newNotifyCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
