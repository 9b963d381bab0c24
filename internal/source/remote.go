package source

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/models"
)

type remoteSource struct {
	client *resty.Client

	logger *logger.Logger
}

// NewRemoteSource constructs an HTTP/REST implementation of [Source]
// against the interop server. It normalises and validates the base URL
// from sourceCfg.BaseURL and configures the underlying HTTP client with
// the resolved base URL, the per-request timeout, and the certificate
// verification toggle.
//
// Returns an error if sourceCfg.BaseURL is empty or cannot be parsed as
// a valid URL.
func NewRemoteSource(sourceCfg config.Source, logger *logger.Logger) (Source, error) {
	baseURL, err := normalizeBaseURL(sourceCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(sourceCfg.RequestTimeout)

	if sourceCfg.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &remoteSource{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchSnapshot implements [Source]. It GETs /api/targets and keys the
// decoded records by ID. Records without a positive ID are dropped with
// a warning: the cache index cannot address them. Any transport or HTTP
// failure is reported as [ErrUnavailable].
func (r *remoteSource) FetchSnapshot(ctx context.Context) (models.Snapshot, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		Get("/api/targets")
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot request: %w: %v", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			// 404 on the snapshot endpoint is a broken server, not a
			// missing thumbnail.
			return nil, fmt.Errorf("fetch snapshot: %w: endpoint not found", ErrUnavailable)
		}
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	var targets []models.Target
	if err = json.Unmarshal(resp.Body(), &targets); err != nil {
		return nil, fmt.Errorf("decode snapshot response: %w: %v", ErrUnavailable, err)
	}

	snapshot := make(models.Snapshot, len(targets))
	for _, t := range targets {
		if t.ID == 0 {
			r.logger.Warn().Msg("dropping snapshot record without id")
			continue
		}
		snapshot[t.ID] = t
	}

	return snapshot, nil
}

// FetchImage implements [Source]. It GETs /api/targets/{id}/image and
// classifies the bytes by Content-Type: image/png is raw, image/jpeg is
// compressed. Anything else defaults to raw.
func (r *remoteSource) FetchImage(ctx context.Context, id uint64) (models.Image, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/api/targets/%d/image", id))
	if err != nil {
		return models.Image{}, fmt.Errorf("fetch image request: %w: %v", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Image{}, fmt.Errorf("fetch image %d: %w", id, err)
	}

	body := resp.Body()
	if len(body) == 0 {
		return models.Image{}, fmt.Errorf("fetch image %d: %w: empty body", id, ErrImageNotFound)
	}

	return models.Image{Bytes: body, Format: formatFromContentType(resp.Header().Get("Content-Type"))}, nil
}

// FetchServerInfo implements [Source]. It GETs /api/info and parses the
// loosely formatted interop timestamps.
func (r *remoteSource) FetchServerInfo(ctx context.Context) (models.ServerInfo, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		Get("/api/info")
	if err != nil {
		return models.ServerInfo{}, fmt.Errorf("fetch server info request: %w: %v", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ServerInfo{}, fmt.Errorf("fetch server info: %w", err)
	}

	var wire struct {
		Message          string `json:"message"`
		MessageTimestamp string `json:"message_timestamp"`
		ServerTime       string `json:"server_time"`
	}
	if err = json.Unmarshal(resp.Body(), &wire); err != nil {
		return models.ServerInfo{}, fmt.Errorf("decode server info response: %w: %v", ErrUnavailable, err)
	}

	info := models.ServerInfo{Message: wire.Message}
	if info.MessageTimestamp, err = models.ParseServerTime(wire.MessageTimestamp); err != nil {
		return models.ServerInfo{}, fmt.Errorf("decode server info message timestamp: %w", err)
	}
	if info.ServerTime, err = models.ParseServerTime(wire.ServerTime); err != nil {
		return models.ServerInfo{}, fmt.Errorf("decode server info server time: %w", err)
	}

	return info, nil
}

func formatFromContentType(contentType string) models.ImageFormat {
	switch {
	case strings.HasPrefix(contentType, "image/jpeg"):
		return models.FormatCompressed
	case strings.HasPrefix(contentType, "image/png"):
		return models.FormatRaw
	default:
		return models.FormatRaw
	}
}
