package attendance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPSubmitter submits finalize batches to POST {BaseURL}/attendance/finalize.
// There is no automatic retry: a failed finalize is reported and the caller
// decides when to try again.
type HTTPSubmitter struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// SubmitAttendance implements Submitter over the REST finalize endpoint.
func (s *HTTPSubmitter) SubmitAttendance(ctx context.Context, batch Batch) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/attendance/finalize", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("submit finalize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil && envelope.Error != "" {
			return fmt.Errorf("finalize rejected: %s", envelope.Error)
		}
		return fmt.Errorf("finalize rejected: status %d", resp.StatusCode)
	}
	return nil
}
