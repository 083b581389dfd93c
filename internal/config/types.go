package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

const secretMask = "**********"

// Secret holds an optional credential. The zero value is absent.
// Every rendering path (fmt verbs, JSON, YAML, zap) masks the value;
// Value is the only way to read it.
type Secret struct {
	value string
}

// NewSecret wraps value. An empty value yields an absent Secret.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Value returns the raw secret.
func (s Secret) Value() string {
	return s.value
}

// IsSet reports whether the secret is present.
func (s Secret) IsSet() bool {
	return s.value != ""
}

func (s Secret) String() string {
	if !s.IsSet() {
		return ""
	}
	return secretMask
}

// Format implements fmt.Formatter so that no verb, %#v and %x included, reaches the raw value.
func (s Secret) Format(f fmt.State, _ rune) {
	_, _ = fmt.Fprint(f, s.String())
}

func (s Secret) MarshalJSON() ([]byte, error) {
	if !s.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(secretMask)
}

func (s Secret) MarshalYAML() (any, error) {
	if !s.IsSet() {
		return nil, nil
	}
	return secretMask, nil
}

// FraudDatasetSize selects how much synthetic fraud data the feature pipelines generate.
type FraudDatasetSize string

const (
	FraudDatasetLarge  FraudDatasetSize = "LARGE"
	FraudDatasetMedium FraudDatasetSize = "MEDIUM"
	FraudDatasetSmall  FraudDatasetSize = "SMALL"
)

var fraudDatasetSizes = []FraudDatasetSize{FraudDatasetLarge, FraudDatasetMedium, FraudDatasetSmall}

// ParseFraudDatasetSize matches raw against the declared values, case-sensitively.
func ParseFraudDatasetSize(raw string) (FraudDatasetSize, error) {
	size := FraudDatasetSize(raw)
	if !size.Valid() {
		return "", fmt.Errorf("must be one of [%s]", joinValues(fraudDatasetSizes))
	}
	return size, nil
}

// Valid reports whether s is one of the declared sizes.
func (s FraudDatasetSize) Valid() bool {
	for _, size := range fraudDatasetSizes {
		if s == size {
			return true
		}
	}
	return false
}

// RankingModelType selects the model deployed behind the ranking inference endpoint.
type RankingModelType string

const (
	RankingModelRanking    RankingModelType = "ranking"
	RankingModelLLMRanking RankingModelType = "llmranking"
)

var rankingModelTypes = []RankingModelType{RankingModelRanking, RankingModelLLMRanking}

// ParseRankingModelType matches raw against the declared values, case-sensitively.
func ParseRankingModelType(raw string) (RankingModelType, error) {
	kind := RankingModelType(raw)
	if !kind.Valid() {
		return "", fmt.Errorf("must be one of [%s]", joinValues(rankingModelTypes))
	}
	return kind, nil
}

// Valid reports whether t is one of the declared model types.
func (t RankingModelType) Valid() bool {
	for _, kind := range rankingModelTypes {
		if t == kind {
			return true
		}
	}
	return false
}

// Source identifies the layer a field value was resolved from.
type Source int

const (
	SourceDefault Source = iota
	SourceDefinitionsFile
	SourceEnvironment
	SourceOverride
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceDefinitionsFile:
		return "definitions-file"
	case SourceEnvironment:
		return "environment"
	case SourceOverride:
		return "override"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Overrides maps declared field names to explicit values. Values may be
// strings or native Go values of the field's type; unknown names are ignored.
type Overrides map[string]any

// Field is one rendered setting. Secret values are masked.
type Field struct {
	Name   string
	Value  string
	Secret bool
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, " ")
}
