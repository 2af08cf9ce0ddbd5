package configs

import (
	"encoding/json"
	"os"
	"time"
)

type TimerConfig struct {
	LogLevel        string
	PoolSize        int
	QueueSize       int
	Interval        time.Duration
	CountdownTotal  time.Duration
	CountdownRepeat time.Duration
	AfterDelay      time.Duration
	RunFor          time.Duration
}

func DefaultConfig() TimerConfig {
	return TimerConfig{
		LogLevel:        "info",
		QueueSize:       64,
		Interval:        1 * time.Second,
		CountdownTotal:  5 * time.Second,
		CountdownRepeat: 2 * time.Second,
		AfterDelay:      1500 * time.Millisecond,
		RunFor:          10 * time.Second,
	}
}

// ReadConfigFromFile overlays the JSON file at filePath on DefaultConfig. Durations are in
// nanoseconds.
func ReadConfigFromFile(filePath string) TimerConfig {
	data, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		panic(err)
	}
	return config
}
