package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a source base address, e.g. http://interop.local:8000
//	-offline read snapshots from a static directory instead of the network
//	-offline-root offline snapshot directory
//	-suppress-moving drop moving targets from offline snapshots
//	-request-timeout per-request timeout (e.g., "10s")
//	-insecure-skip-verify disable TLS certificate verification
//	-f storage root directory
//	-d SQLite DSN (used instead of -f when set)
//	-poll-period base poll interval (e.g., "5s")
//	-staleness-threshold consecutive failures before clear_all
//	-backoff-cap maximum backoff delay between failed polls
//	-image-concurrency parallel thumbnail fetches per cycle
//	-refetch-policy thumbnail refetch policy: always|on-change|never
//	-subscriber-buffer per-subscriber notification queue size
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var baseURL string
	var offline bool
	var offlineRoot string
	var suppressMoving bool
	var requestTimeout time.Duration
	var insecureSkipVerify bool
	var storageRoot string
	var storageDSN string
	var pollPeriod time.Duration
	var stalenessThreshold int
	var backoffCap time.Duration
	var imageConcurrency int
	var refetchPolicy string
	var subscriberBuffer int
	var jsonConfigPath string

	flag.StringVar(&baseURL, "a", "", "Source base address")
	flag.BoolVar(&offline, "offline", false, "Use offline directory source")
	flag.StringVar(&offlineRoot, "offline-root", "", "Offline snapshot directory")
	flag.BoolVar(&suppressMoving, "suppress-moving", false, "Drop moving targets from offline snapshots")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	flag.BoolVar(&insecureSkipVerify, "insecure-skip-verify", false, "Disable TLS certificate verification")
	flag.StringVar(&storageRoot, "f", "", "Storage root directory")
	flag.StringVar(&storageDSN, "d", "", "SQLite DSN")
	flag.DurationVar(&pollPeriod, "poll-period", 0, "Base poll interval (e.g., 5s)")
	flag.IntVar(&stalenessThreshold, "staleness-threshold", 0, "Consecutive failures before clear_all")
	flag.DurationVar(&backoffCap, "backoff-cap", 0, "Maximum backoff delay")
	flag.IntVar(&imageConcurrency, "image-concurrency", 0, "Parallel thumbnail fetches per cycle")
	flag.StringVar(&refetchPolicy, "refetch-policy", "", "Thumbnail refetch policy: always|on-change|never")
	flag.IntVar(&subscriberBuffer, "subscriber-buffer", 0, "Per-subscriber notification queue size")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Source: Source{
			BaseURL:            baseURL,
			RequestTimeout:     requestTimeout,
			InsecureSkipVerify: insecureSkipVerify,
			Offline:            offline,
			OfflineRoot:        offlineRoot,
			SuppressMoving:     suppressMoving,
		},
		Storage: Storage{
			Root: storageRoot,
			DSN:  storageDSN,
		},
		Poller: Poller{
			Period:             pollPeriod,
			StalenessThreshold: stalenessThreshold,
			BackoffCap:         backoffCap,
			ImageConcurrency:   imageConcurrency,
			RefetchPolicy:      refetchPolicy,
			SubscriberBuffer:   subscriberBuffer,
		},
		JSONFilePath: jsonConfigPath,
	}
}
