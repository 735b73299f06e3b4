package models

import (
	"errors"
	"testing"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    SortOrder
		wantErr bool
	}{
		{input: "", want: SortByPath},
		{input: "path", want: SortByPath},
		{input: "name", want: SortByName},
		{input: " Recent ", want: SortByRecent},
		{input: "size", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortOrder(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortOrder(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScanFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  ScanFilter
		wantErr error
	}{
		{name: "files", filter: ScanFilter{IncludeFiles: true}},
		{name: "directories", filter: ScanFilter{IncludeDirectories: true}},
		{name: "both", filter: ScanFilter{IncludeFiles: true, IncludeDirectories: true, Order: SortByRecent}},
		{name: "neither", filter: ScanFilter{NamePattern: "x"}, wantErr: ErrNoEntryKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := (ScanFilter{IncludeFiles: true, Order: "size"}).Validate(); err == nil {
		t.Error("Validate() should reject an unknown sort order")
	}
}

func TestPruneStateString(t *testing.T) {
	tests := map[PruneState]string{
		PruneIdle:       "idle",
		PruneConfirming: "confirming",
		PruneAborted:    "aborted",
		PruneDeleting:   "deleting",
		PrunePruning:    "pruning",
		PruneDone:       "done",
		PruneState(99):  "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("PruneState(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
