// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type OptimizationRequestedEvent struct {
	RequestID          uuid.UUID   `json:"request_id"`
	OrganizationID     uuid.UUID   `json:"organization_id"`
	PointIDs           []uuid.UUID `json:"point_ids"`
	VehicleIDs         []uuid.UUID `json:"vehicle_ids"`
	MaxTripDurationSec float64     `json:"max_trip_duration_sec,omitempty"`
	AllowPartial       bool        `json:"allow_partial"`
	AllowEstimated     bool        `json:"allow_estimated"`
}

func parseIDs(raw string) []uuid.UUID {
	var out []uuid.UUID
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			log.Fatalf("Invalid UUID %q: %v", s, err)
		}
		out = append(out, id)
	}
	return out
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	orgID := flag.String("org", "", "Organization ID (UUID)")
	pointIDs := flag.String("points", "", "Comma-separated collection point IDs")
	vehicleIDs := flag.String("vehicles", "", "Comma-separated vehicle IDs")
	allowPartial := flag.Bool("allow-partial", true, "Accept partial solutions")
	allowEstimated := flag.Bool("allow-estimated", true, "Accept estimated matrix fallback")
	flag.Parse()

	if *orgID == "" || *pointIDs == "" || *vehicleIDs == "" {
		log.Fatal("Usage: test_publish -org <uuid> -points <uuid,...> -vehicles <uuid,...>")
	}

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := OptimizationRequestedEvent{
		RequestID:      uuid.New(),
		OrganizationID: uuid.MustParse(*orgID),
		PointIDs:       parseIDs(*pointIDs),
		VehicleIDs:     parseIDs(*vehicleIDs),
		AllowPartial:   *allowPartial,
		AllowEstimated: *allowEstimated,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Публикация в стрим
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:optimization:requested",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("✅ Event published successfully!\n")
	fmt.Printf("   Stream: stream:optimization:requested\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("   Points: %d, Vehicles: %d\n", len(event.PointIDs), len(event.VehicleIDs))

	// Ожидание ответа
	fmt.Printf("\n⏳ Waiting for response in stream:optimization:done...\n")

	timeout := time.After(60 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("❌ Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{"stream:optimization:done", "0"},
				Count:   10,
				Block:   0,
			}).Result()

			if err != nil && err != redis.Nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var response map[string]interface{}
					if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
						continue
					}

					if reqID, ok := response["request_id"].(string); ok {
						if reqID == event.RequestID.String() {
							fmt.Printf("\n✅ Response received!\n")
							prettyJSON, _ := json.MarshalIndent(response, "", "  ")
							fmt.Printf("%s\n", prettyJSON)
							return
						}
					}
				}
			}
		}
	}
}
