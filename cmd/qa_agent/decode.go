package main

import (
	"encoding/json"

	"github.com/jonathan/qa-agent/internal/types"
)

// Decoding helpers for verbose output. Artifacts were schema-validated
// at write time, so parse failures just suppress the summary.

func decodePRDContext(content []byte) *types.ExtractedPRD {
	var extracted types.ExtractedPRD
	if err := json.Unmarshal(content, &extracted); err != nil {
		return nil
	}
	return &extracted
}

func decodeTestPlan(content []byte) *types.TestPlanDocument {
	var doc types.TestPlanDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil
	}
	return &doc
}

func decodeTestSuite(content []byte) *types.TestSuite {
	var suite types.TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return nil
	}
	return &suite
}
