package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadindex/internal/model"
)

func TestCSVKind(t *testing.T) {
	tests := []struct {
		stem string
		want model.Kind
	}{
		{"final_companies", model.KindCompany},
		{"mail_20260115", model.KindMail},
		{"people", model.KindPerson},
		{"People_final", model.KindPerson},
		{"personer", model.KindPerson},
		{"styrelse", model.KindPerson},
		{"granskning", model.KindAudit},
		{"bedomning", model.KindEvaluation},
		{"sammanfattning", model.KindSummary},
	}
	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			assert.Equal(t, tt.want, csvKind(tt.stem))
		})
	}
}

func TestReadDate_PeopleCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "people.csv"),
		[]byte("mapp;personnummer;fornamn;roll\nX1;19800101-1111;Anna;Ledamot\n"), 0o644))

	res, err := NewReader(DefaultPolicy()).ReadDate(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, res.Companies)
	require.Len(t, res.People, 1)
	assert.Equal(t, "X1", res.People[0].FolderID)
}
