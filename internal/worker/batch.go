package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kase1111-hash/speccheck/internal/model"
)

// Verifier checks a single claim
type Verifier interface {
	Verify(ctx context.Context, claim string) (*model.Report, error)
}

// VerifierFunc adapts a function to Verifier
type VerifierFunc func(ctx context.Context, claim string) (*model.Report, error)

// Verify calls f
func (f VerifierFunc) Verify(ctx context.Context, claim string) (*model.Report, error) {
	return f(ctx, claim)
}

// ClaimJob represents a claim verification job
type ClaimJob struct {
	Claim    string
	Verifier Verifier
}

// Execute executes the verification job
func (j *ClaimJob) Execute(ctx context.Context) Result {
	report, err := j.Verifier.Verify(ctx, j.Claim)
	return &ClaimResult{
		Claim:  j.Claim,
		Report: report,
		Error:  err,
	}
}

// ClaimResult represents the result of a verification job
type ClaimResult struct {
	Claim  string
	Report *model.Report
	Error  error
}

// GetError returns the error from the verification
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies many claims concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessClaims verifies claims concurrently; results keep the input order
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, c := range claims {
		pool.Submit(&ClaimJob{
			Claim:    c,
			Verifier: b.verifier,
		})
	}

	results := pool.Wait()

	claimResults := make([]*ClaimResult, 0, len(results))
	for _, result := range results {
		cr, ok := result.(*ClaimResult)
		if !ok {
			// The job never ran; its claim is not known here
			claimResults = append(claimResults, &ClaimResult{Error: result.GetError()})
			continue
		}
		claimResults = append(claimResults, cr)
	}

	return claimResults
}

// ProcessFile reads claims from a file and verifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file (one per line)
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadClaims(file)
}

// ReadClaims reads one claim per line, skipping blanks and # comments.
// Repeated claims are kept once.
func ReadClaims(r io.Reader) ([]string, error) {
	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
