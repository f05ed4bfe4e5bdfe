//go:build ignore

// Публикует запрос перезагрузки датасета и ждёт ответ воркера.
//
//	go run scripts/publish_refresh.go -redis localhost:6379 -source s3://bucket/meta.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/building-analyzer/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	source := flag.String("source", "", "Dataset location, empty for the configured source")
	wait := flag.Duration("wait", 2*time.Minute, "How long to wait for the done event")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := domain.DatasetRefreshEvent{RequestID: uuid.New(), Source: *source}
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamDatasetRefresh,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}
	fmt.Printf("Published %s to %s (request %s)\n", id, domain.StreamDatasetRefresh, event.RequestID)

	deadline := time.Now().Add(*wait)
	lastID := "0"
	for time.Now().Before(deadline) {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamDatasetDone, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Fatalf("Failed to read %s: %v", domain.StreamDatasetDone, err)
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				lastID = msg.ID
				raw, _ := msg.Values["data"].(string)

				var done domain.DatasetDoneEvent
				if json.Unmarshal([]byte(raw), &done) != nil || done.RequestID != event.RequestID {
					continue
				}
				pretty, _ := json.MarshalIndent(done, "", "  ")
				fmt.Printf("Done:\n%s\n", pretty)
				return
			}
		}
	}
	log.Fatalf("Timeout waiting for %s", domain.StreamDatasetDone)
}
