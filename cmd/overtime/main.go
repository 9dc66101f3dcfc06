// Package main - overtime
// Load generator for the office server: simulates a floor of overworked
// employees hammering the break API while observers watch the dashboard.
// Useful for verifying the delay gate and the mutation serialization
// under real concurrency.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Config for the load generator.
type Config struct {
	ServerURL     string
	WSURL         string
	NumEmployees  int
	NumObservers  int
	BreakInterval time.Duration
	TestDuration  time.Duration
}

// Stats tracks observed behavior.
type Stats struct {
	BreaksTaken    int64
	BreaksDelayed  int64
	EventsReceived int64
	Errors         int64
	MaxStress      int64
	MaxAlert       int64
	Latencies      []time.Duration
	mu             sync.Mutex
}

var breakTools = []string{
	"take_a_break",
	"watch_netflix",
	"show_meme",
	"bathroom_break",
	"coffee_mission",
	"urgent_call",
	"deep_thinking",
	"email_organizing",
}

// breakResponse mirrors the break desk reply keys.
type breakResponse struct {
	StressLevel    int `json:"Stress Level"`
	BossAlertLevel int `json:"Boss Alert Level"`
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Server base URL")
	wsURL := flag.String("ws", "ws://localhost:8080/ws", "WebSocket dashboard URL")
	employees := flag.Int("employees", 20, "Number of concurrent break takers")
	observers := flag.Int("observers", 5, "Number of WebSocket observers")
	interval := flag.Duration("interval", 500*time.Millisecond, "Break interval per employee")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	delayHint := flag.Duration("delay-hint", 5*time.Second, "Latency above this counts as a delayed break")
	flag.Parse()

	config := Config{
		ServerURL:     *serverURL,
		WSURL:         *wsURL,
		NumEmployees:  *employees,
		NumObservers:  *observers,
		BreakInterval: *interval,
		TestDuration:  *duration,
	}

	fmt.Println("=========================================")
	fmt.Println("OVERTIME - Office Load Generator")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", config.ServerURL)
	fmt.Printf("Employees: %d\n", config.NumEmployees)
	fmt.Printf("Observers: %d\n", config.NumObservers)
	fmt.Printf("Interval: %v\n", config.BreakInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received, stopping...")
		cancel()
	}()

	stats := runLoadTest(ctx, config, *delayHint)
	printResults(stats, config)
}

func runLoadTest(ctx context.Context, config Config, delayHint time.Duration) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup

	fmt.Println("\nStarting observers...")
	for i := 0; i < config.NumObservers; i++ {
		wg.Add(1)
		go func(observerID int) {
			defer wg.Done()
			runObserver(ctx, observerID, config, stats)
		}(i)
	}

	fmt.Println("Starting employees...")
	for i := 0; i < config.NumEmployees; i++ {
		wg.Add(1)
		go func(employeeID int) {
			defer wg.Done()
			runEmployee(ctx, employeeID, config, stats, delayHint)
		}(i)

		// Stagger starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("All %d employees on the floor\n\n", config.NumEmployees)

	progress := time.NewTicker(5 * time.Second)
	defer progress.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-progress.C:
				taken := atomic.LoadInt64(&stats.BreaksTaken)
				delayed := atomic.LoadInt64(&stats.BreaksDelayed)
				events := atomic.LoadInt64(&stats.EventsReceived)
				errs := atomic.LoadInt64(&stats.Errors)
				fmt.Printf("Progress: Breaks=%d Delayed=%d Events=%d Errors=%d\n", taken, delayed, events, errs)
			}
		}
	}()

	wg.Wait()
	return stats
}

func runEmployee(ctx context.Context, employeeID int, config Config, stats *Stats, delayHint time.Duration) {
	client := &http.Client{Timeout: delayHint * 10}

	ticker := time.NewTicker(config.BreakInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tool := breakTools[rand.Intn(len(breakTools))]
			url := config.ServerURL + "/api/break/" + tool

			start := time.Now()
			resp, err := client.Post(url, "application/json", nil)
			latency := time.Since(start)

			if err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}

			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}

			var br breakResponse
			if err := json.Unmarshal(body, &br); err == nil {
				recordHighWater(&stats.MaxStress, int64(br.StressLevel))
				recordHighWater(&stats.MaxAlert, int64(br.BossAlertLevel))
				if br.StressLevel < 0 || br.StressLevel > 100 || br.BossAlertLevel < 0 || br.BossAlertLevel > 5 {
					log.Printf("Employee %d: counter out of bounds! stress=%d alert=%d",
						employeeID, br.StressLevel, br.BossAlertLevel)
					atomic.AddInt64(&stats.Errors, 1)
				}
			}

			atomic.AddInt64(&stats.BreaksTaken, 1)
			if latency >= delayHint {
				atomic.AddInt64(&stats.BreaksDelayed, 1)
			}

			stats.mu.Lock()
			stats.Latencies = append(stats.Latencies, latency)
			stats.mu.Unlock()
		}
	}
}

func runObserver(ctx context.Context, observerID int, config Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.WSURL, nil)
	if err != nil {
		log.Printf("Observer %d: connection failed: %v", observerID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			return
		}
		atomic.AddInt64(&stats.EventsReceived, 1)
	}
}

func recordHighWater(target *int64, value int64) {
	for {
		current := atomic.LoadInt64(target)
		if value <= current || atomic.CompareAndSwapInt64(target, current, value) {
			return
		}
	}
}

func printResults(stats *Stats, config Config) {
	taken := atomic.LoadInt64(&stats.BreaksTaken)
	delayed := atomic.LoadInt64(&stats.BreaksDelayed)
	events := atomic.LoadInt64(&stats.EventsReceived)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Println("\n=========================================")
	fmt.Println("RESULTS")
	fmt.Println("=========================================")
	fmt.Printf("Breaks taken:     %d\n", taken)
	fmt.Printf("Breaks delayed:   %d\n", delayed)
	fmt.Printf("Events observed:  %d\n", events)
	fmt.Printf("Errors:           %d\n", errs)
	fmt.Printf("Max stress seen:  %d\n", atomic.LoadInt64(&stats.MaxStress))
	fmt.Printf("Max alert seen:   %d\n", atomic.LoadInt64(&stats.MaxAlert))

	stats.mu.Lock()
	latencies := make([]time.Duration, len(stats.Latencies))
	copy(latencies, stats.Latencies)
	stats.mu.Unlock()

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		fmt.Printf("Latency p50:      %v\n", latencies[len(latencies)*50/100])
		fmt.Printf("Latency p95:      %v\n", latencies[len(latencies)*95/100])
		fmt.Printf("Latency max:      %v\n", latencies[len(latencies)-1])
	}

	if errs > 0 {
		fmt.Println("\nThe office did not survive the crunch.")
		os.Exit(1)
	}
	fmt.Println("\nEveryone got their breaks. The boss suspects nothing.")
}
