// FilePath: cmd/backfill/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/agrisense/farmwatch/internal/models"
	"github.com/agrisense/farmwatch/internal/simulator"
)

// backfill generates plausible historical readings for every active sensor
// and submits them through the public bulk endpoint, so aggregation views
// have data to show on a fresh install.

type publicSensor struct {
	ID        string   `json:"id"`
	DataTypes []string `json:"data_types"`
}

type readingPayload struct {
	SensorObjectID string  `json:"sensor_object_id"`
	DataType       string  `json:"data_type"`
	Value          float64 `json:"value"`
	Timestamp      string  `json:"timestamp"`
}

type bulkResponse struct {
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080/api/v1", "server base URL")
	days := flag.Int("days", 7, "number of days to backfill")
	step := flag.Duration("step", 30*time.Second, "spacing between generated readings")
	batchSize := flag.Int("batch", 1000, "readings per bulk request")
	flag.Parse()

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3)

	var sensors []publicSensor
	resp, err := client.R().
		SetResult(&sensors).
		Get("/sensors/public/active")
	if err != nil {
		log.Fatalf("failed to fetch active sensors: %v", err)
	}
	if resp.IsError() {
		log.Fatalf("failed to fetch active sensors: %s", resp.Status())
	}
	if len(sensors) == 0 {
		log.Println("no active sensors, nothing to backfill")
		return
	}
	log.Printf("backfilling %d days for %d sensors", *days, len(sensors))

	end := time.Now().UTC().Truncate(*step)
	start := end.AddDate(0, 0, -*days)

	batch := make([]readingPayload, 0, *batchSize)
	total := 0
	for ts := start; ts.Before(end); ts = ts.Add(*step) {
		for _, sensor := range sensors {
			for _, dataType := range sensor.DataTypes {
				batch = append(batch, readingPayload{
					SensorObjectID: sensor.ID,
					DataType:       dataType,
					Value:          simulator.GenerateValue(models.DataType(dataType)),
					Timestamp:      ts.Format(time.RFC3339),
				})
				if len(batch) >= *batchSize {
					total += submit(client, batch)
					batch = batch[:0]
				}
			}
		}
	}
	if len(batch) > 0 {
		total += submit(client, batch)
	}

	log.Printf("done, %d readings inserted", total)
}

func submit(client *resty.Client, batch []readingPayload) int {
	var result bulkResponse
	resp, err := client.R().
		SetBody(batch).
		SetResult(&result).
		Post("/readings/bulk")
	if err != nil {
		log.Fatalf("bulk insert failed: %v", err)
	}
	if resp.IsError() {
		log.Fatalf("bulk insert rejected: %s %s", resp.Status(), resp.String())
	}
	fmt.Printf(".")
	return result.Inserted
}
