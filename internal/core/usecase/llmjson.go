package usecase

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

// Model output is untyped text with an expected schema. Decoding is a
// strict attempt first, a repair attempt second, and an error last; callers
// fall back to a deterministic producer instead of propagating the failure.

var numericArrayPattern = regexp.MustCompile(`\[\s*-?\d+(?:\.\d+)?(?:\s*,\s*-?\d+(?:\.\d+)?)*\s*\]`)

// decodeJSONObject extracts the first brace-delimited object from raw and
// unmarshals it into out, repairing near-JSON before giving up.
func decodeJSONObject(raw string, out any) error {
	candidate := extractJSONObject(raw)
	if candidate == "" {
		return fmt.Errorf("no json object in model output")
	}
	if err := json.Unmarshal([]byte(candidate), out); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return fmt.Errorf("repair model json: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("decode model json: %w", err)
	}
	return nil
}

// decodeNumericArray extracts the first well-formed bracketed numeric array
// from raw.
func decodeNumericArray(raw string) ([]float64, error) {
	match := numericArrayPattern.FindString(raw)
	if match == "" {
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil {
			return nil, fmt.Errorf("no numeric array in model output")
		}
		match = numericArrayPattern.FindString(repaired)
		if match == "" {
			return nil, fmt.Errorf("no numeric array in model output")
		}
	}

	var scores []float64
	if err := json.Unmarshal([]byte(match), &scores); err != nil {
		return nil, fmt.Errorf("decode score array: %w", err)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("empty score array in model output")
	}
	return scores, nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return ""
}
