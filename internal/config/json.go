package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and the
// [Duration] wrapper so intervals can be written as "5s" in config files.
type StructuredJSONConfig struct {
	Source struct {
		BaseURL            string   `json:"base_url"`
		RequestTimeout     Duration `json:"request_timeout"`
		InsecureSkipVerify bool     `json:"insecure_skip_verify"`
		Offline            bool     `json:"offline"`
		OfflineRoot        string   `json:"offline_root"`
		SuppressMoving     bool     `json:"suppress_moving"`
	} `json:"source,omitempty"`

	Storage struct {
		Root string `json:"root"`
		DSN  string `json:"dsn"`
	} `json:"storage,omitempty"`

	Poller struct {
		Period             Duration `json:"period"`
		StalenessThreshold int      `json:"staleness_threshold"`
		BackoffCap         Duration `json:"backoff_cap"`
		ImageConcurrency   int      `json:"image_concurrency"`
		RefetchPolicy      string   `json:"refetch_policy"`
		SubscriberBuffer   int      `json:"subscriber_buffer"`
	} `json:"poller,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Source: Source{
			BaseURL:            jsonCfg.Source.BaseURL,
			RequestTimeout:     time.Duration(jsonCfg.Source.RequestTimeout),
			InsecureSkipVerify: jsonCfg.Source.InsecureSkipVerify,
			Offline:            jsonCfg.Source.Offline,
			OfflineRoot:        jsonCfg.Source.OfflineRoot,
			SuppressMoving:     jsonCfg.Source.SuppressMoving,
		},
		Storage: Storage{
			Root: jsonCfg.Storage.Root,
			DSN:  jsonCfg.Storage.DSN,
		},
		Poller: Poller{
			Period:             time.Duration(jsonCfg.Poller.Period),
			StalenessThreshold: jsonCfg.Poller.StalenessThreshold,
			BackoffCap:         time.Duration(jsonCfg.Poller.BackoffCap),
			ImageConcurrency:   jsonCfg.Poller.ImageConcurrency,
			RefetchPolicy:      jsonCfg.Poller.RefetchPolicy,
			SubscriberBuffer:   jsonCfg.Poller.SubscriberBuffer,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
