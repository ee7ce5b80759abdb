package main

import (
	"errors"
	"testing"

	"github.com/gyeh/recordstats/internal/model"
	"github.com/gyeh/recordstats/internal/table"
)

func TestFindPatient(t *testing.T) {
	records := []model.JoinedRecord{
		{Encounter: model.Encounter{ID: "e1", Patient: "P1"}, Patient: model.Patient{ID: "P1", First: table.Str("John")}},
		{Encounter: model.Encounter{ID: "e2", Patient: "P2"}, Patient: model.Patient{ID: "P2", First: table.Str("Mary")}},
	}

	tests := []struct {
		name    string
		byID    bool
		id      string
		query   string
		want    int
		wantErr error
	}{
		{name: "id match", byID: true, id: "P1", want: 1},
		{name: "empty id matches nothing", byID: true, id: "", want: 0},
		{name: "name match", query: "mar", want: 1},
		{name: "empty name rejected", query: "", wantErr: errEmptyName},
		{name: "blank name rejected", query: "  ", wantErr: errEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := findPatient(records, tt.byID, tt.id, tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(l.Records) != tt.want {
				t.Errorf("got %d records, want %d", len(l.Records), tt.want)
			}
		})
	}
}
