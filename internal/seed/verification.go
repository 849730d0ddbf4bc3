package seed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/insightify/pkg/logger"
)

// VerifyReport counts how the service clustered the seeded learners.
type VerifyReport struct {
	Requested int
	Succeeded int
	Failed    int
	Clusters  map[int]int
	ByPersona map[string]map[int]int
}

// ClusterIDs returns the observed cluster ids in ascending order.
func (r *VerifyReport) ClusterIDs() []int {
	ids := make([]int, 0, len(r.Clusters))
	for id := range r.Clusters {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type inferenceResponse struct {
	Result struct {
		Cluster int `json:"cluster"`
	} `json:"result"`
}

type verifyResult struct {
	learner Learner
	cluster int
	err     error
}

// Verify asks the service at baseURL to cluster every learner.
func Verify(ctx context.Context, baseURL string, learners []Learner, workers int, timeout time.Duration) (*VerifyReport, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	client := &http.Client{Timeout: timeout}
	endpoint := baseURL + "/cluster-inference"

	jobs := make(chan Learner, workers*2)
	results := make(chan verifyResult, len(learners))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for l := range jobs {
				cluster, err := inferOne(ctx, client, endpoint, l.ID)
				results <- verifyResult{learner: l, cluster: cluster, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, l := range learners {
			select {
			case <-ctx.Done():
				return
			case jobs <- l:
			}
		}
	}()

	wg.Wait()
	close(results)

	report := &VerifyReport{
		Requested: len(learners),
		Clusters:  make(map[int]int),
		ByPersona: make(map[string]map[int]int),
	}
	for r := range results {
		if r.err != nil {
			report.Failed++
			logger.Get().Debug(ctx, "verification request failed",
				logger.String("user_id", r.learner.ID), logger.Error(r.err))
			continue
		}
		report.Succeeded++
		report.Clusters[r.cluster]++
		if report.ByPersona[r.learner.Persona] == nil {
			report.ByPersona[r.learner.Persona] = make(map[int]int)
		}
		report.ByPersona[r.learner.Persona][r.cluster]++
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	if report.Succeeded == 0 && report.Requested > 0 {
		return report, fmt.Errorf("%w: no learner could be clustered", ErrVerification)
	}
	return report, nil
}

func inferOne(ctx context.Context, client *http.Client, endpoint, userID string) (int, error) {
	u := endpoint + "?user_id=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, http.NoBody)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	var out inferenceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return out.Result.Cluster, nil
}
