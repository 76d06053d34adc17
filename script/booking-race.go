package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/middleware"
)

// TestResult contains metrics for a single booking attempt
type TestResult struct {
	SlotID       string
	UserID       uuid.UUID
	StatusCode   int
	Kind         string
	ResponseTime time.Duration
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests     int
	Booked            int
	TotalTime         time.Duration
	ResponseTimes     []time.Duration
	Outcomes          map[string]int // kind or HTTP status of each attempt
	WinnersBySlot     map[string][]uuid.UUID
	TransportFailures int
	Lock              sync.Mutex
}

func main() {
	concurrency := flag.Int("c", 20, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 200, "Total number of booking attempts")
	userIDsStr := flag.String("u", "", "Comma-separated user UUIDs to book as")
	screenIDStr := flag.String("screen", "", "Screen UUID to book")
	date := flag.String("date", time.Now().UTC().AddDate(0, 0, 1).Format(entity.DateLayout), "Date to book (YYYY-MM-DD)")
	hotSlots := flag.Int("slots", 3, "Number of contested slots")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	secret := flag.String("secret", os.Getenv("SB_JWT_SECRET"), "JWT signing secret")
	issuer := flag.String("issuer", "screen-booking", "JWT issuer")
	delayMs := flag.Int("delay", 0, "Delay between requests in milliseconds")
	flag.Parse()

	screenID, err := uuid.Parse(*screenIDStr)
	if err != nil {
		fmt.Println("A valid -screen UUID is required")
		os.Exit(2)
	}

	auth := middleware.AuthConfig{Secret: *secret, Issuer: *issuer}
	tokens := make(map[uuid.UUID]string)
	for _, idStr := range strings.Split(*userIDsStr, ",") {
		id, err := uuid.Parse(strings.TrimSpace(idStr))
		if err != nil {
			continue
		}
		token, err := middleware.SignToken(auth, middleware.Identity{UserID: id, Role: entity.RoleUser}, time.Now(), time.Hour)
		if err != nil {
			fmt.Printf("Failed to sign token: %v\n", err)
			os.Exit(1)
		}
		tokens[id] = token
	}
	if len(tokens) == 0 {
		fmt.Println("At least one -u user UUID is required")
		os.Exit(2)
	}
	users := make([]uuid.UUID, 0, len(tokens))
	for id := range tokens {
		users = append(users, id)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	// Every worker races for the same few slots
	slots, err := fetchSlots(client, *baseURL, tokens[users[0]], screenID, *date)
	if err != nil {
		fmt.Printf("Failed to fetch availability: %v\n", err)
		os.Exit(1)
	}
	if len(slots) > *hotSlots {
		slots = slots[:*hotSlots]
	}
	if len(slots) == 0 {
		fmt.Println("No available slots on", *date)
		os.Exit(1)
	}

	fmt.Printf("Racing %d users over %d slots of screen %s on %s\n", len(users), len(slots), screenID, *date)
	fmt.Printf("Concurrency: %d goroutines, %d attempts\n", *concurrency, *totalRequests)

	stats := &TestStats{
		TotalRequests: *totalRequests,
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
		Outcomes:      make(map[string]int),
		WinnersBySlot: make(map[string][]uuid.UUID),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	startTime := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if *delayMs > 0 {
					time.Sleep(time.Duration(*delayMs) * time.Millisecond)
				}
				userID := users[rand.Intn(len(users))]
				slot := slots[rand.Intn(len(slots))]
				results <- book(client, *baseURL, tokens[userID], userID, screenID, *date, slot)
			}
		}()
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	var collector sync.WaitGroup
	collector.Add(1)
	go func() {
		defer collector.Done()
		for result := range results {
			stats.Lock.Lock()
			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			switch {
			case result.Error != nil:
				stats.TransportFailures++
				stats.Outcomes["transport error"]++
			case result.StatusCode == http.StatusCreated:
				stats.Booked++
				stats.Outcomes["Created"]++
				stats.WinnersBySlot[result.SlotID] = append(stats.WinnersBySlot[result.SlotID], result.UserID)
			default:
				stats.Outcomes[fmt.Sprintf("%d %s", result.StatusCode, result.Kind)]++
			}
			stats.Lock.Unlock()
		}
	}()

	wg.Wait()
	close(results)
	collector.Wait()
	stats.TotalTime = time.Since(startTime)

	if !printResults(stats) {
		os.Exit(1)
	}
}

func fetchSlots(client *http.Client, baseURL, token string, screenID uuid.UUID, date string) ([]dto.SlotResponse, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/screens/%s/availability?date=%s", baseURL, screenID, date), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}

	var day dto.AvailabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&day); err != nil {
		return nil, err
	}
	var open []dto.SlotResponse
	for _, s := range day.Slots {
		if s.IsAvailable && s.StartTime.After(time.Now()) {
			open = append(open, s)
		}
	}
	return open, nil
}

func book(client *http.Client, baseURL, token string, userID, screenID uuid.UUID, date string, slot dto.SlotResponse) TestResult {
	result := TestResult{SlotID: slot.SlotID, UserID: userID}

	body, err := json.Marshal(dto.CreateBookingRequest{
		ScreenID:    screenID.String(),
		Date:        date,
		SlotID:      slot.SlotID,
		StartTime:   slot.StartTime,
		Price:       slot.Price,
		DisplayName: "racer-" + userID.String()[:8],
	})
	if err != nil {
		result.Error = err
		return result
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/bookings", bytes.NewReader(body))
	if err != nil {
		result.Error = err
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := client.Do(req)
	result.ResponseTime = time.Since(start)
	if err != nil {
		result.Error = err
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusCreated {
		var errBody dto.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			result.Kind = errBody.Kind
		}
	}
	return result
}

// printResults reports the run and whether any slot was sold twice
func printResults(stats *TestStats) bool {
	sorted := slices.Clone(stats.ResponseTimes)
	slices.Sort(sorted)

	var p50, p95, p99 time.Duration
	if len(sorted) > 0 {
		p50 = sorted[len(sorted)*50/100]
		p95 = sorted[len(sorted)*95/100]
		p99 = sorted[len(sorted)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Attempts:            %d\n", stats.TotalRequests)
	fmt.Printf("Bookings created:    %d\n", stats.Booked)
	fmt.Printf("Transport failures:  %d\n", stats.TransportFailures)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f req/s\n", float64(stats.TotalRequests)/stats.TotalTime.Seconds())

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- OUTCOMES -----------------")
	for outcome, count := range stats.Outcomes {
		fmt.Printf("%-30s: %d\n", outcome, count)
	}

	fmt.Println("\n================= CONCLUSION =================")
	ok := true
	for slotID, winners := range stats.WinnersBySlot {
		if len(winners) > 1 {
			ok = false
			fmt.Printf("❌ Slot %s was booked %d times\n", slotID, len(winners))
		}
	}
	if ok {
		fmt.Println("✅ Every contested slot was sold at most once")
	}
	fmt.Println("================================================")
	return ok
}
