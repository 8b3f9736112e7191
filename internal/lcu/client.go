package lcu

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrLockfileNotFound = errors.New("lockfile not found")
	ErrLeagueNotRunning = errors.New("league client is not running")
	// ErrNotFound is returned for 404 responses and for ranked stats with no queues.
	ErrNotFound = errors.New("resource not found")
)

// StatusError is returned when the client answers with an unexpected status code.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// Credentials holds the LCU connection details parsed from lockfile
type Credentials struct {
	ProcessName string
	PID         string
	Port        string
	Password    string
	Protocol    string
}

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	// LockfilePath skips lockfile discovery when set.
	LockfilePath string
	Timeout      time.Duration
}

// Client represents a connection to the League Client
type Client struct {
	httpClient   *http.Client
	lockfilePath string
	log          zerolog.Logger

	mu          sync.RWMutex
	credentials *Credentials
	baseURL     string
	authHeader  string
}

// NewClient creates a new LCU client
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, // LCU uses self-signed cert
				},
			},
			Timeout: timeout,
		},
		lockfilePath: opts.LockfilePath,
		log:          logger.With().Str("component", "lcu").Logger(),
	}
}

// FindLockfile searches for the League Client lockfile
func FindLockfile() (string, error) {
	possiblePaths := []string{
		"C:/Riot Games/League of Legends/lockfile",
		"D:/Riot Games/League of Legends/lockfile",
		"C:/Program Files/Riot Games/League of Legends/lockfile",
		"C:/Program Files (x86)/Riot Games/League of Legends/lockfile",
		"/Applications/League of Legends.app/Contents/LoL/lockfile",
	}

	for _, drive := range []string{"E:", "F:", "G:"} {
		possiblePaths = append(possiblePaths, filepath.Join(drive, "Riot Games/League of Legends/lockfile"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrLockfileNotFound
}

// ParseLockfile reads and parses the lockfile content
func ParseLockfile(path string) (*Credentials, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	// Lockfile format: LeagueClient:pid:port:password:protocol
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) != 5 {
		return nil, fmt.Errorf("invalid lockfile format: expected 5 parts, got %d", len(parts))
	}

	return &Credentials{
		ProcessName: parts[0],
		PID:         parts[1],
		Port:        parts[2],
		Password:    parts[3],
		Protocol:    parts[4],
	}, nil
}

// Connect establishes connection to the League Client
func (c *Client) Connect(ctx context.Context) error {
	path := c.lockfilePath
	if path == "" {
		found, err := FindLockfile()
		if err != nil {
			return err
		}
		path = found
	} else if _, err := os.Stat(path); err != nil {
		return ErrLockfileNotFound
	}

	creds, err := ParseLockfile(path)
	if err != nil {
		return err
	}

	c.setCredentials(creds, fmt.Sprintf("https://127.0.0.1:%s", creds.Port))

	if err := c.testConnection(ctx); err != nil {
		c.clearCredentials()
		return fmt.Errorf("failed to connect to LCU: %w", err)
	}

	return nil
}

// UseEndpoint points the client at baseURL with the given credentials,
// bypassing lockfile discovery.
func (c *Client) UseEndpoint(baseURL string, creds *Credentials) {
	c.setCredentials(creds, strings.TrimRight(baseURL, "/"))
}

func (c *Client) setCredentials(creds *Credentials, baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credentials = creds
	c.baseURL = baseURL
	c.authHeader = "Basic " + base64.StdEncoding.EncodeToString([]byte("riot:"+creds.Password))
}

func (c *Client) clearCredentials() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credentials = nil
}

// testConnection verifies we can reach the LCU API
func (c *Client) testConnection(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/lol-summoner/v1/current-summoner", nil, nil)
}

// IsConnected checks if the client is still connected to LCU
// by making a health check request
func (c *Client) IsConnected(ctx context.Context) bool {
	if c.Credentials() == nil {
		return false
	}

	if err := c.testConnection(ctx); err != nil {
		c.clearCredentials()
		return false
	}

	return true
}

// Credentials returns the current LCU credentials
func (c *Client) Credentials() *Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credentials
}

// Port returns the LCU port
func (c *Client) Port() string {
	creds := c.Credentials()
	if creds == nil {
		return ""
	}
	return creds.Port
}

// Disconnect forgets the current credentials
func (c *Client) Disconnect() {
	c.clearCredentials()
}

// GetJSON performs a GET request and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do performs a request against the LCU API. A nil out discards the body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	c.mu.RLock()
	creds, baseURL, auth := c.credentials, c.baseURL, c.authHeader
	c.mu.RUnlock()
	if creds == nil {
		return ErrLeagueNotRunning
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("lcu request")

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
