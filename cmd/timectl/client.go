package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// client talks to the timetrack HTTP API on behalf of one user. Versioned
// transitions read the current timer first and send its version back, so a
// concurrent change from another terminal surfaces as a conflict instead of
// silently winning.
type client struct {
	baseURL string
	userID  string
}

type timerView struct {
	ProjectID      string `json:"projectId"`
	Description    string `json:"description"`
	State          string `json:"state"`
	StartedAtLocal string `json:"startedAtLocal"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	Version        int64  `json:"version"`
	ForcedPause    bool   `json:"forcedPause"`
}

type entryView struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Description string `json:"description"`
	StartLocal  string `json:"startLocal"`
	EndLocal    string `json:"endLocal"`
	Minutes     int    `json:"minutes"`
	Billable    bool   `json:"billable"`
}

type apiError struct {
	Detail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-User-ID", c.userID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Detail.Message != "" {
			return fmt.Errorf("%s", apiErr.Detail.Message)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) currentVersion() (int64, error) {
	var t timerView
	if err := c.do(http.MethodGet, "/v1/timer", nil, &t); err != nil {
		return 0, err
	}
	return t.Version, nil
}

func (c *client) start(projectID, description string, billable bool) error {
	var t timerView
	err := c.do(http.MethodPost, "/v1/timer/start", map[string]any{
		"projectId":   projectID,
		"description": description,
		"billable":    billable,
	}, &t)
	if err != nil {
		return err
	}
	fmt.Printf("Timer started on %s: %s\n", t.ProjectID, t.Description)
	return nil
}

func (c *client) status() error {
	var t timerView
	if err := c.do(http.MethodGet, "/v1/timer", nil, &t); err != nil {
		return err
	}
	elapsed := (time.Duration(t.ElapsedSeconds) * time.Second).Round(time.Second)
	fmt.Printf("%s  %s  %s (started %s, elapsed %s)\n",
		t.State, t.ProjectID, t.Description, t.StartedAtLocal, elapsed)
	if t.ForcedPause {
		fmt.Println("note: timer was auto-paused after missed heartbeats")
	}
	return nil
}

func (c *client) transition(action string) error {
	version, err := c.currentVersion()
	if err != nil {
		return err
	}
	var t timerView
	if err := c.do(http.MethodPost, "/v1/timer/"+action, map[string]any{"version": version}, &t); err != nil {
		return err
	}
	fmt.Printf("Timer %s (state: %s)\n", action+"d", t.State)
	return nil
}

func (c *client) stop() error {
	version, err := c.currentVersion()
	if err != nil {
		return err
	}
	var e entryView
	if err := c.do(http.MethodPost, "/v1/timer/stop", map[string]any{"version": version}, &e); err != nil {
		return err
	}
	fmt.Printf("Committed %d min on %s: %s (%s – %s)\n",
		e.Minutes, e.ProjectID, e.Description, e.StartLocal, e.EndLocal)
	return nil
}

func (c *client) discard() error {
	version, err := c.currentVersion()
	if err != nil {
		return err
	}
	if err := c.do(http.MethodPost, "/v1/timer/discard", map[string]any{"version": version}, nil); err != nil {
		return err
	}
	fmt.Println("Timer discarded.")
	return nil
}

func (c *client) entries(since string) error {
	path := "/v1/entries"
	if since != "" {
		path += "?since=" + url.QueryEscape(since)
	}
	var resp struct {
		Entries []entryView `json:"entries"`
	}
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return err
	}
	if len(resp.Entries) == 0 {
		fmt.Println("No entries.")
		return nil
	}
	for _, e := range resp.Entries {
		billable := " "
		if e.Billable {
			billable = "$"
		}
		fmt.Printf("%s %4d min  %-12s %s (%s – %s)\n",
			billable, e.Minutes, e.ProjectID, e.Description, e.StartLocal, e.EndLocal)
	}
	return nil
}

func (c *client) summary(since string) error {
	path := "/v1/billing/summary"
	if since != "" {
		path += "?since=" + url.QueryEscape(since)
	}
	var resp struct {
		Currencies map[string]struct {
			Hours    float64 `json:"hours"`
			Gross    float64 `json:"gross"`
			Billable float64 `json:"billable"`
		} `json:"currencies"`
	}
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return err
	}
	if len(resp.Currencies) == 0 {
		fmt.Println("Nothing to bill.")
		return nil
	}
	for code, totals := range resp.Currencies {
		fmt.Printf("%-12s %8.2fh  gross %10.2f  billable %10.2f\n",
			code, totals.Hours, totals.Gross, totals.Billable)
	}
	return nil
}
