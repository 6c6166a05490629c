package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// MeetingClient manages external video-consultation resources, keyed by an
// opaque meeting id. Appointment operations treat every failure from this
// collaborator as a non-fatal warning.
type MeetingClient interface {
	CreateMeeting(ctx context.Context, topic string, startTime time.Time, duration int) (*Meeting, error)
	UpdateMeeting(ctx context.Context, meetingID string, startTime time.Time, duration int) error
	DeleteMeeting(ctx context.Context, meetingID string) error
}

// Meeting is the provider's representation of a video-consultation session.
type Meeting struct {
	ID      string `json:"id"`
	JoinURL string `json:"join_url"`
	HostURL string `json:"host_url"`
}

// HTTPMeetingClient talks to the meeting provider's REST API. The bounded
// client timeout keeps a hung provider from wedging a request.
type HTTPMeetingClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPMeetingClient() *HTTPMeetingClient {
	return &HTTPMeetingClient{
		baseURL: os.Getenv("MEETING_API_URL"),
		apiKey:  os.Getenv("MEETING_API_KEY"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPMeetingClient) CreateMeeting(ctx context.Context, topic string, startTime time.Time, duration int) (*Meeting, error) {
	payload := map[string]interface{}{
		"topic":      topic,
		"start_time": startTime.UTC().Format(time.RFC3339),
		"duration":   duration,
	}
	body, err := c.do(ctx, http.MethodPost, "/meetings", payload, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	var meeting Meeting
	if err := json.Unmarshal(body, &meeting); err != nil {
		return nil, fmt.Errorf("failed to decode meeting response: %w", err)
	}
	return &meeting, nil
}

func (c *HTTPMeetingClient) UpdateMeeting(ctx context.Context, meetingID string, startTime time.Time, duration int) error {
	payload := map[string]interface{}{
		"start_time": startTime.UTC().Format(time.RFC3339),
		"duration":   duration,
	}
	_, err := c.do(ctx, http.MethodPatch, "/meetings/"+meetingID, payload, http.StatusOK)
	return err
}

func (c *HTTPMeetingClient) DeleteMeeting(ctx context.Context, meetingID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/meetings/"+meetingID, nil, http.StatusNoContent)
	return err
}

func (c *HTTPMeetingClient) do(ctx context.Context, method, path string, payload interface{}, wantStatus int) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal meeting request: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meeting provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read meeting provider response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("meeting provider returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
