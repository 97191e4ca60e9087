package compreface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stashapp/stash/pkg/plugin/common/log"
)

// Face plugins understood by the detection endpoint
const (
	PluginLandmarks = "landmarks"
	PluginPose      = "pose"
)

// NewClient creates a new Compreface API client
func NewClient(baseURL string, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DetectFacesFromBytes detects faces in image bytes
// POST /api/v1/detection/detect?face_plugins=<plugins>
func (c *Client) DetectFacesFromBytes(ctx context.Context, imageBytes []byte, filename string, plugins []string) (*DetectionResponse, error) {
	reqURL := fmt.Sprintf("%s/api/v1/detection/detect", c.BaseURL)
	if len(plugins) > 0 {
		reqURL += "?face_plugins=" + url.QueryEscape(strings.Join(plugins, ","))
	}

	// Create multipart form
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	_, err = part.Write(imageBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-api-key", c.APIKey)

	log.Tracef("DetectFacesFromBytes: POST %s (%d bytes)", reqURL, len(imageBytes))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			// code 28 is "No face is found in the given image"
			if apiErr.Code == 28 {
				log.Debugf("DetectFacesFromBytes: no face found")
				return &DetectionResponse{}, nil
			}
			return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	var detection DetectionResponse
	err = json.Unmarshal(respBody, &detection)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	log.Debugf("DetectFacesFromBytes: Found %d face(s)", len(detection.Result))
	return &detection, nil
}
