package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	pwquality "github.com/debarshiray/libpwquality"
	"github.com/debarshiray/libpwquality/conversation"
)

type convState struct {
	id    string
	token string
}

// loadtestCmd represents the loadtest command
var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Measure conversation store throughput",
	Long: `The loadtest command seeds the conversation store and measures resume
and attempt-registration throughput. Without a Redis address an embedded
miniredis instance is used, so absolute numbers are only comparable
against a real deployment.`,
	Run: func(cmd *cobra.Command, args []string) {
		conversations, err := cmd.Flags().GetInt("conversations")
		if err != nil {
			log.WithError(err).Error("error getting conversations flag")
			os.Exit(1)
		}

		concurrency, err := cmd.Flags().GetInt("concurrency")
		if err != nil {
			log.WithError(err).Error("error getting concurrency flag")
			os.Exit(1)
		}

		ops, err := cmd.Flags().GetInt("ops")
		if err != nil {
			log.WithError(err).Error("error getting ops flag")
			os.Exit(1)
		}

		addr, err := cmd.Flags().GetString("redis-addr")
		if err != nil {
			log.WithError(err).Error("error getting redis-addr flag")
			os.Exit(1)
		}

		prefix, err := cmd.Flags().GetString("prefix")
		if err != nil {
			log.WithError(err).Error("error getting prefix flag")
			os.Exit(1)
		}

		service, err := cmd.Flags().GetString("service")
		if err != nil {
			log.WithError(err).Error("error getting service flag")
			os.Exit(1)
		}

		if conversations <= 0 || concurrency <= 0 || ops <= 0 {
			log.Error("conversations, concurrency, and ops must be > 0")
			os.Exit(2)
		}

		ctx := context.Background()

		if addr == "" {
			addr = os.Getenv("REDIS_ADDR")
		}

		var (
			cleanup func()
			client  redis.UniversalClient
		)
		if addr == "" {
			mr, err := miniredis.Run()
			if err != nil {
				log.WithError(err).Error("error starting miniredis")
				os.Exit(1)
			}
			addr = mr.Addr()
			client = redis.NewUniversalClient(&redis.UniversalOptions{
				Addrs: []string{addr},
			})
			cleanup = func() {
				_ = client.Close()
				mr.Close()
			}
			fmt.Printf("using miniredis at %s\n", addr)
		} else {
			client = redis.NewUniversalClient(&redis.UniversalOptions{
				Addrs: []string{addr},
			})
			cleanup = func() { _ = client.Close() }
			fmt.Printf("using redis at %s\n", addr)
		}
		defer cleanup()

		store := conversation.NewStore(client, nil, prefix, 30*time.Minute, 0)

		states := make([]convState, conversations)
		fmt.Printf("seeding %d conversations...\n", conversations)
		startSeed := time.Now()
		for i := 0; i < conversations; i++ {
			record, token, err := store.Create(
				ctx, service, fmt.Sprintf("user-%d", i),
				uint32(pwquality.FlagUpdateAuthTok), "",
			)
			if err != nil {
				log.WithError(err).Error("error seeding conversation")
				os.Exit(1)
			}
			states[i] = convState{id: record.ID, token: token}
		}
		fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

		resumeStats := runResumePhase(ctx, store, service, states, ops, concurrency)
		attemptStats := runAttemptPhase(ctx, store, service, states, ops, concurrency)

		fmt.Println("---- results ----")
		printStats("resume", resumeStats)
		printStats("attempt", attemptStats)
	},
}

func init() {
	RootCmd.AddCommand(loadtestCmd)

	loadtestCmd.Flags().Int(
		"conversations", 10000,
		"Number of conversations to seed",
	)
	loadtestCmd.Flags().Int(
		"concurrency", 128,
		"Number of concurrent workers",
	)
	loadtestCmd.Flags().Int(
		"ops", 50000,
		"Operations per phase (resume + attempt)",
	)
	loadtestCmd.Flags().String(
		"redis-addr", "",
		"Redis address; if empty, REDIS_ADDR env or miniredis is used",
	)
	loadtestCmd.Flags().String(
		"prefix", "pwc",
		"Conversation key prefix",
	)
	loadtestCmd.Flags().String(
		"service", "loadtest",
		"Service name conversations are filed under",
	)
}

func runResumePhase(ctx context.Context, store *conversation.Store, service string, states []convState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				t0 := time.Now()
				_, err := store.Resume(ctx, service, states[idx].token)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runAttemptPhase(ctx context.Context, store *conversation.Store, service string, states []convState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				t0 := time.Now()
				_, err := store.RegisterAttempt(ctx, service, states[idx].id, 0)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
