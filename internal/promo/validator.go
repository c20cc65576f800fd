package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

// Validator answers whether a promo code can be applied at checkout.
// Codes are loaded from gzipped line-delimited files; a bloom filter
// screens unknown codes before the exact set is consulted, so the common
// "no code / bad code" path never walks the full set.
type Validator struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
	codes  map[string]struct{}
}

func NewValidator() *Validator {
	return &Validator{codes: make(map[string]struct{})}
}

// Load replaces the validator's code set.
func (v *Validator) Load(codes []string) {
	filter := bloom.NewWithEstimates(uint(len(codes))+1, 0.01)
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		set[code] = struct{}{}
		filter.AddString(code)
	}

	v.mu.Lock()
	v.codes = set
	v.filter = filter
	v.mu.Unlock()
}

// LoadFromURLs downloads gzipped code files and loads their union.
func (v *Validator) LoadFromURLs(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return fmt.Errorf("no promo code URLs provided")
	}

	client := &http.Client{Timeout: 2 * time.Minute}

	var codes []string
	for _, url := range urls {
		loaded, err := fetchCodes(ctx, client, url)
		if err != nil {
			return fmt.Errorf("load promo codes from %s: %w", url, err)
		}
		codes = append(codes, loaded...)
	}

	v.Load(codes)
	return nil
}

// IsValid reports whether the code is known. An empty or unloaded
// validator rejects everything.
func (v *Validator) IsValid(ctx context.Context, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.filter == nil {
		return false
	}
	if !v.filter.TestString(code) {
		return false
	}
	_, ok := v.codes[code]
	return ok
}

func fetchCodes(ctx context.Context, client *http.Client, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var codes []string
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			codes = append(codes, line)
		}
	}
	return codes, scanner.Err()
}
