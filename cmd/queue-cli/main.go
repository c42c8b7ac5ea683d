package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Black1604/cloud1604-solution/internal/config"
	equeue "github.com/Black1604/cloud1604-solution/internal/email/queue"
	"github.com/Black1604/cloud1604-solution/internal/logger"
)

var (
	redisAddr string
	redisDB   int
	verbose   bool
	outputFmt string
	listLimit int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "queue-cli",
	Short: "Email queue management tool",
	Long: `Queue CLI provides command-line access to the email delivery queue.
Inspect queue depth, list failed jobs, requeue them, or purge the failed list.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address (host:port)")
	rootCmd.PersistentFlags().IntVar(&redisDB, "redis-db", 0, "Redis database number")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "output format (table, json)")

	viper.BindPFlag("redis_addr", rootCmd.PersistentFlags().Lookup("redis-addr"))
	viper.BindPFlag("redis_db", rootCmd.PersistentFlags().Lookup("redis-db"))

	failedCmd.Flags().Int64Var(&listLimit, "limit", 50, "maximum jobs to list")

	rootCmd.AddCommand(depthCmd)
	rootCmd.AddCommand(failedCmd)
	rootCmd.AddCommand(requeueCmd)
	rootCmd.AddCommand(purgeCmd)
}

func initConfig() {
	viper.SetEnvPrefix("QUEUE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if redisAddr == "" {
		redisAddr = viper.GetString("redis_addr")
	}
}

func newQueue() (*equeue.RedisQueue, *redis.Client, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if redisAddr != "" {
		cfg.RedisAddr = redisAddr
	}
	if redisDB != 0 {
		cfg.RedisDB = redisDB
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rc.Ping(ctx).Result(); err != nil {
		rc.Close()
		return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.RedisAddr, err)
	}

	if verbose {
		fmt.Printf("Redis: %s/%d\n", cfg.RedisAddr, cfg.RedisDB)
	}
	return equeue.New(rc, cfg, logger.Nop()), rc, nil
}

var depthCmd = &cobra.Command{
	Use:   "depth",
	Short: "Show the number of jobs waiting for delivery",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, rc, err := newQueue()
		if err != nil {
			return err
		}
		defer rc.Close()

		n, err := q.Depth(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%d\n", n)
		return nil
	},
}

var failedCmd = &cobra.Command{
	Use:   "failed",
	Short: "List jobs on the failed list",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, rc, err := newQueue()
		if err != nil {
			return err
		}
		defer rc.Close()

		jobs, err := q.Failed(cmd.Context(), listLimit)
		if err != nil {
			return err
		}

		if outputFmt == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(jobs)
		}

		if len(jobs) == 0 {
			fmt.Println("No failed jobs.")
			return nil
		}
		fmt.Printf("%-36s  %-36s  %-8s  %-20s  %s\n", "JOB ID", "TENANT", "ATTEMPTS", "CREATED", "LAST ERROR")
		for _, j := range jobs {
			fmt.Printf("%-36s  %-36s  %-8d  %-20s  %s\n",
				j.ID, j.TenantID, j.Attempts, j.CreatedAt.Format(time.RFC3339), j.LastError)
		}
		return nil
	},
}

var requeueCmd = &cobra.Command{
	Use:   "requeue <job-id>",
	Short: "Move a failed job back onto the pending queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, rc, err := newQueue()
		if err != nil {
			return err
		}
		defer rc.Close()

		ok, err := q.Requeue(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("job %s not found on failed list", args[0])
		}
		fmt.Printf("Requeued %s\n", args[0])
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all jobs from the failed list",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, rc, err := newQueue()
		if err != nil {
			return err
		}
		defer rc.Close()

		n, err := q.PurgeFailed(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d job(s)\n", n)
		return nil
	},
}
