package testsessions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with a timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitSessions posts every session to /predict_fatigue and /save_session
// concurrently and collects the predictions for verification.
func submitSessions(ctx context.Context, config *Config, sessions []Session, stats *Stats) ([]Prediction, error) {
	log.Printf("submitting %d sessions with %d workers...", len(sessions), config.Workers)

	client := newHTTPClient(config.Timeout)
	predictURL := config.BaseURL + "/predict_fatigue"
	saveURL := config.BaseURL + "/save_session"

	var (
		predicted int64
		failed    int64
		saved     int64
		saveFails int64
	)

	predictions := make([]Prediction, len(sessions))
	predictedOK := make([]bool, len(sessions))

	type indexed struct {
		index   int
		session Session
	}

	sessionChan := make(chan indexed, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for item := range sessionChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				prediction, err := predictSingle(ctx, client, predictURL, item.session)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Printf("prediction failed for %s: %v", item.session.UserID, err)
					}
				} else {
					atomic.AddInt64(&predicted, 1)
					predictions[item.index] = prediction
					predictedOK[item.index] = true
				}

				if err := saveSingle(ctx, client, saveURL, item.session); err != nil {
					atomic.AddInt64(&saveFails, 1)
					if config.Verbose {
						log.Printf("save failed for %s: %v", item.session.UserID, err)
					}
				} else {
					atomic.AddInt64(&saved, 1)
				}
			}
		}()
	}

	go func() {
		defer close(sessionChan)
		for i, session := range sessions {
			select {
			case <-ctx.Done():
				return
			case sessionChan <- indexed{index: i, session: session}:
			}
		}
	}()

	wg.Wait()

	stats.PredictionsSubmitted = len(sessions)
	stats.PredictionsSuccessful = int(atomic.LoadInt64(&predicted))
	stats.PredictionsFailed = int(atomic.LoadInt64(&failed))
	stats.SessionsSaved = int(atomic.LoadInt64(&saved))
	stats.SavesFailed = int(atomic.LoadInt64(&saveFails))

	log.Printf(`session submission completed:
   Predictions: %d (failed: %d)
   Saves: %d (failed: %d)
`, stats.PredictionsSuccessful, stats.PredictionsFailed, stats.SessionsSaved, stats.SavesFailed)

	// Compact to only the predictions that succeeded.
	out := make([]Prediction, 0, stats.PredictionsSuccessful)
	for i, ok := range predictedOK {
		if ok {
			out = append(out, predictions[i])
		}
	}
	return out, nil
}

// predictSingle posts one session and decodes the prediction.
func predictSingle(ctx context.Context, client *HTTPClient, url string, session Session) (Prediction, error) {
	resp, err := client.Post(ctx, url, session)
	if err != nil {
		return Prediction{}, err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Prediction{}, err
	}
	if resp.StatusCode != StatusOK {
		return Prediction{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var prediction Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return Prediction{}, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return prediction, nil
}

// saveSingle posts one session to the save endpoint and checks the receipt.
func saveSingle(ctx context.Context, client *HTTPClient, url string, session Session) error {
	resp, err := client.Post(ctx, url, session)
	if err != nil {
		return err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var receipt SaveReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return fmt.Errorf("failed to decode receipt: %w", err)
	}
	if receipt.Status != "saved" {
		return fmt.Errorf("unexpected receipt status %q", receipt.Status)
	}
	return nil
}
