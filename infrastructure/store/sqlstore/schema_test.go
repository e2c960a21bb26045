package sqlstore

import "testing"

func TestRebind(t *testing.T) {
	tests := []struct {
		name  string
		query string
		ph    Placeholder
		want  string
	}{
		{"question marks unchanged", "SELECT 1 WHERE a = ? AND b = ?", QuestionMark, "SELECT 1 WHERE a = ? AND b = ?"},
		{"dollar numbering", "SELECT 1 WHERE a = ? AND b = ?", Dollar, "SELECT 1 WHERE a = $1 AND b = $2"},
		{"no placeholders", "SELECT 1", Dollar, "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rebind(tt.query, tt.ph); got != tt.want {
				t.Errorf("rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}
