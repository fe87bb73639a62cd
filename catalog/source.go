package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hanahehe/restore/models"
)

// Baseline is the read-only seed document (db.json)
type Baseline struct {
	Users    []models.User     `json:"users"`
	Products []models.Product  `json:"products"`
	Menu     []models.MenuItem `json:"menu"`
}

// Source fetches the baseline once at startup
type Source interface {
	Fetch(ctx context.Context) (*Baseline, error)
}

// NewSource picks an HTTP source for http(s) locations and a file source otherwise
func NewSource(location string, timeout time.Duration) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location, Client: &http.Client{Timeout: timeout}}
	}
	return &FileSource{Path: location}
}

type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) (*Baseline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", s.URL, resp.Status)
	}
	var b Baseline
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.URL, err)
	}
	return &b, nil
}

type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(_ context.Context) (*Baseline, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return &b, nil
}

// StaticSource serves an in-memory baseline; a nil Baseline fails the fetch
type StaticSource struct {
	Baseline *Baseline
}

func (s StaticSource) Fetch(_ context.Context) (*Baseline, error) {
	if s.Baseline == nil {
		return nil, errors.New("no baseline")
	}
	return s.Baseline, nil
}
