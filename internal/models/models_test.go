// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package models

import "testing"

func TestInteractionTypeValid(t *testing.T) {
	for _, it := range InteractionTypes {
		if !it.Valid() {
			t.Errorf("%q should be valid", it)
		}
	}
	for _, it := range []InteractionType{"", "purchase", "READ"} {
		if it.Valid() {
			t.Errorf("%q should be invalid", it)
		}
	}
	if DefaultInteractionType != InteractionRead {
		t.Errorf("DefaultInteractionType = %q, want read", DefaultInteractionType)
	}
}

func TestArticleEmbeddingText(t *testing.T) {
	a := Article{Title: "Quantum leap", Summary: "Qubits stay coherent"}
	if got := a.EmbeddingText(); got != "Quantum leap Qubits stay coherent" {
		t.Errorf("EmbeddingText() = %q", got)
	}
}
