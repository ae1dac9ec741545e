package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numIDs       = 200
)

var periods = []string{"week", "month", "lifetime"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== playtrack Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Item IDs: %d\n\n", numWorkers, testDuration, numIDs)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// PT_ADMIN_TOKEN enables a summary generation burst before the read phases.
	if token := os.Getenv("PT_ADMIN_TOKEN"); token != "" {
		fmt.Println("\n--- Phase 1: Summary generation (POST /admin/summary/generate) ---")
		runPhase(2*time.Second, func(_ *rand.Rand) result {
			return doAdminPost("/admin/summary/generate", token)
		})
	}

	fmt.Println("\n--- Phase 2: Dashboard reads ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.25:
			return doGet("GET /summary/latest", "/summary/latest", http.StatusOK, http.StatusNotFound)
		case r < 0.45:
			return doGet("GET /top", fmt.Sprintf("/top?period=%s&page=%d", periods[rng.Intn(len(periods))], rng.Intn(3)+1), http.StatusOK)
		case r < 0.60:
			return doGet("GET /trends", "/trends", http.StatusOK)
		case r < 0.75:
			return doGet("GET /heatmap", fmt.Sprintf("/heatmap?days=%d", rng.Intn(365)+1), http.StatusOK)
		case r < 0.90:
			return doGet("GET /streaks", "/streaks", http.StatusOK)
		default:
			return doGet("GET /summary/history", "/summary/history", http.StatusOK)
		}
	})

	fmt.Println("\n--- Phase 3: Item lookups ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doGet("GET /items/{id}", fmt.Sprintf("/items/%d", rng.Intn(numIDs)+1), http.StatusOK, http.StatusNotFound)
		case r < 0.70:
			return doGet("GET /compare", "/compare?ids="+randomIDs(rng, rng.Intn(4)+1), http.StatusOK)
		default:
			return doGet("GET /items/search", "/items/search?q="+string(rune('a'+rng.Intn(26))), http.StatusOK)
		}
	})
}

func randomIDs(rng *rand.Rand, n int) string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", rng.Intn(numIDs)+1)
	}
	return strings.Join(ids, ",")
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGet(endpoint, path string, ok ...int) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, !expected(resp.StatusCode, ok)}
}

func doAdminPost(path, token string) result {
	req, _ := http.NewRequest(http.MethodPost, baseURL+path, nil)
	req.Header.Set("X-Token", token)
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	endpoint := "POST " + path
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, !expected(resp.StatusCode, []int{http.StatusOK, http.StatusCreated, http.StatusNotFound})}
}

func expected(status int, ok []int) bool {
	for _, code := range ok {
		if status == code {
			return true
		}
	}
	return false
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
