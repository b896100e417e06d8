package importer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dadao-education/unicatalog/internal/providers"
)

func TestParseUniversities(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantNames    []string
		wantWarnings int
		wantErr      bool
	}{
		{
			name:      "plain array",
			text:      `[{"nameCN":"Test U","departments":[]},{"nameCN":"Other U"}]`,
			wantNames: []string{"Test U", "Other U"},
		},
		{
			name:      "code fence",
			text:      "```json\n[{\"nameCN\":\"Test U\"}]\n```",
			wantNames: []string{"Test U"},
		},
		{
			name:      "bare fence",
			text:      "```\n[{\"nameCN\":\"Test U\"}]\n```",
			wantNames: []string{"Test U"},
		},
		{
			name:      "wrapped under universities",
			text:      `{"universities":[{"nameCN":"Test U"}]}`,
			wantNames: []string{"Test U"},
		},
		{
			name:      "wrapped under data",
			text:      `{"data":[{"nameCN":"Test U"},{"nameCN":"B"}]}`,
			wantNames: []string{"Test U", "B"},
		},
		{
			name:      "single object",
			text:      `{"nameCN":"Test U","departments":[{"name":"Eng"}]}`,
			wantNames: []string{"Test U"},
		},
		{
			name:         "missing nameCN is dropped",
			text:         `[{"nameEN":"No Chinese Name"},{"nameCN":"  "},{"nameCN":"Kept"}]`,
			wantNames:    []string{"Kept"},
			wantWarnings: 2,
		},
		{
			name:         "structural mismatch is dropped",
			text:         `[{"nameCN":"Bad","departments":"none"},{"nameCN":"Good","qsRanking":3}]`,
			wantNames:    []string{"Good"},
			wantWarnings: 1,
		},
		{
			name:      "ranking as string or float is kept",
			text:      `[{"nameCN":"A","qsRanking":"5"},{"nameCN":"B","qsRanking":5.0},{"nameCN":"C","qsRanking":"first"}]`,
			wantNames: []string{"A", "B", "C"},
		},
		{
			name:      "numeric free text is kept",
			text:      `[{"nameCN":"Test U","departments":[{"name":"Eng","programs":[{"nameCN":"CS","tuition":35000,"requirements":{"ielts":{"total":6.5},"gpa":3.2}}]}]}]`,
			wantNames: []string{"Test U"},
		},
		{name: "invalid json", text: `[{"nameCN":"Test U"`, wantErr: true},
		{name: "prose", text: "Sorry, I cannot help with that.", wantErr: true},
		{name: "scalar", text: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseUniversities(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %+v", res)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			var names []string
			for _, u := range res.Universities {
				names = append(names, u.NameCN)
			}
			if strings.Join(names, ",") != strings.Join(tt.wantNames, ",") {
				t.Errorf("Expected %v, got %v", tt.wantNames, names)
			}
			if len(res.Warnings) != tt.wantWarnings {
				t.Errorf("Expected %d warnings, got %v", tt.wantWarnings, res.Warnings)
			}
		})
	}
}

func TestParseUniversitiesKeepsNumericFields(t *testing.T) {
	res, err := parseUniversities(`[{"nameCN":"Test U","qsRanking":5.0,"departments":[{"name":"Eng","programs":[{"nameCN":"CS","tuition":35000,"requirements":{"ielts":{"total":6.5}}}]}]}]`)
	if err != nil {
		t.Fatalf("parseUniversities failed: %v", err)
	}
	if len(res.Universities) != 1 || len(res.Warnings) != 0 {
		t.Fatalf("Expected one university and no warnings, got %+v", res)
	}

	u := res.Universities[0]
	if u.QSRanking != 5 {
		t.Errorf("Expected ranking 5, got %d", u.QSRanking)
	}
	p := u.Departments[0].Programs[0]
	if p.Tuition != "35000" {
		t.Errorf("Expected tuition 35000, got %q", p.Tuition)
	}
	if p.Requirements.IELTS == nil || p.Requirements.IELTS.Total != "6.5" {
		t.Errorf("Expected IELTS total 6.5, got %+v", p.Requirements.IELTS)
	}
}

func TestNormalizeSendsChunkInJSONMode(t *testing.T) {
	fp := &fakeProvider{respond: respondAlways(`[{"nameCN":"Test U"}]`)}
	n := NewNormalizer(fp.factory(), "test-model", 0.2)

	chunk := []json.RawMessage{
		json.RawMessage(`{"text":"first page"}`),
		json.RawMessage(`{"text":"second page"}`),
	}
	res, err := n.Normalize(context.Background(), chunk)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(res.Universities) != 1 {
		t.Fatalf("Expected 1 university, got %d", len(res.Universities))
	}

	if fp.callCount() != 1 {
		t.Fatalf("Expected 1 provider call, got %d", fp.callCount())
	}
	cfg := fp.calls[0]
	if !cfg.JSONMode {
		t.Error("Expected JSON mode to be requested")
	}
	if cfg.Model != "test-model" || cfg.Temperature != 0.2 {
		t.Errorf("Unexpected model settings: %+v", cfg)
	}
	for _, want := range []string{"first page", "second page", "nameCN"} {
		if !strings.Contains(cfg.Prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestNormalizeFactoryPerCall(t *testing.T) {
	created := 0
	fp := &fakeProvider{respond: respondAlways(`[{"nameCN":"Test U"}]`)}
	factory := func() (providers.Provider, error) {
		created++
		return fp, nil
	}
	n := NewNormalizer(factory, "m", 0)

	chunk := []json.RawMessage{json.RawMessage(`{}`)}
	for i := 0; i < 3; i++ {
		if _, err := n.Normalize(context.Background(), chunk); err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
	}
	if created != 3 {
		t.Errorf("Expected a provider handle per call, got %d", created)
	}
}

func TestNormalizeErrors(t *testing.T) {
	chunk := []json.RawMessage{json.RawMessage(`{}`)}

	t.Run("factory error", func(t *testing.T) {
		n := NewNormalizer(func() (providers.Provider, error) {
			return nil, errors.New("no credentials")
		}, "m", 0)
		if _, err := n.Normalize(context.Background(), chunk); err == nil {
			t.Error("Expected error from factory")
		}
	})

	t.Run("provider error", func(t *testing.T) {
		fp := &fakeProvider{respond: respondSequence()}
		n := NewNormalizer(fp.factory(), "m", 0)
		if _, err := n.Normalize(context.Background(), chunk); err == nil {
			t.Error("Expected provider error")
		}
	})

	t.Run("unparseable reply", func(t *testing.T) {
		fp := &fakeProvider{respond: respondAlways("not json at all")}
		n := NewNormalizer(fp.factory(), "m", 0)
		if _, err := n.Normalize(context.Background(), chunk); err == nil {
			t.Error("Expected parse error")
		}
	})
}
