package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const rawKey = "hw-key-9f8e7d"

func TestSecretNeverRendersRawValue(t *testing.T) {
	t.Parallel()

	secret := NewSecret(rawKey)

	renderings := map[string]string{
		"String": secret.String(),
		"%v":     fmt.Sprintf("%v", secret),
		"%+v":    fmt.Sprintf("%+v", secret),
		"%#v":    fmt.Sprintf("%#v", secret),
		"%s":     fmt.Sprintf("%s", secret),
		"%q":     fmt.Sprintf("%q", secret),
		"%x":     fmt.Sprintf("%x", secret),
		"%d":     fmt.Sprintf("%d", secret),
	}
	for name, got := range renderings {
		if strings.Contains(got, rawKey) {
			t.Fatalf("%s rendering leaked the secret: %s", name, got)
		}
	}

	if secret.Value() != rawKey {
		t.Fatalf("expected Value to return the raw secret")
	}
}

func TestSecretSerialisationIsMasked(t *testing.T) {
	t.Parallel()

	payload := struct {
		Key    Secret `json:"key" yaml:"key"`
		Absent Secret `json:"absent" yaml:"absent"`
	}{Key: NewSecret(rawKey)}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json.Marshal returned error: %v", err)
	}
	if want := `{"key":"**********","absent":null}`; string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}

	data, err = yaml.Marshal(payload)
	if err != nil {
		t.Fatalf("yaml.Marshal returned error: %v", err)
	}
	if strings.Contains(string(data), rawKey) {
		t.Fatalf("yaml output leaked the secret: %s", data)
	}
	if !strings.Contains(string(data), "absent: null") {
		t.Fatalf("expected absent secret to render as null, got %s", data)
	}
}

func TestSecretPresence(t *testing.T) {
	t.Parallel()

	if (Secret{}).IsSet() {
		t.Fatalf("zero Secret must be absent")
	}
	if NewSecret("").IsSet() {
		t.Fatalf("empty Secret must be absent")
	}
	if (Secret{}).String() != "" {
		t.Fatalf("absent Secret must render empty")
	}
	if !NewSecret("x").IsSet() {
		t.Fatalf("non-empty Secret must be present")
	}
}

func TestParseFraudDatasetSize(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"LARGE", "MEDIUM", "SMALL"} {
		got, err := ParseFraudDatasetSize(raw)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", raw, err)
		}
		if string(got) != raw {
			t.Fatalf("expected %s, got %s", raw, got)
		}
	}

	for _, raw := range []string{"HUGE", "small", "", " SMALL"} {
		if _, err := ParseFraudDatasetSize(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseRankingModelType(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"ranking", "llmranking"} {
		got, err := ParseRankingModelType(raw)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", raw, err)
		}
		if string(got) != raw {
			t.Fatalf("expected %s, got %s", raw, got)
		}
	}

	for _, raw := range []string{"regression", "Ranking", ""} {
		if _, err := ParseRankingModelType(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSourceString(t *testing.T) {
	t.Parallel()

	cases := map[Source]string{
		SourceDefault:         "default",
		SourceDefinitionsFile: "definitions-file",
		SourceEnvironment:     "environment",
		SourceOverride:        "override",
		Source(42):            "source(42)",
	}
	for src, want := range cases {
		if got := src.String(); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}
