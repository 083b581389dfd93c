package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errNull       = errors.New("null is not allowed")
	errNotInteger = errors.New("not an integer")
	errNotNumber  = errors.New("not a number")
)

// field binds a declared setting name to its slot in Settings.
type field struct {
	name   string
	secret bool
	set    func(*Settings, any) error
	get    func(Settings) any
}

func newField[T any](name string, slot func(*Settings) *T, coerce func(any) (T, error)) field {
	var zero T
	_, secret := any(zero).(Secret)
	return field{
		name:   name,
		secret: secret,
		set: func(s *Settings, raw any) error {
			value, err := coerce(raw)
			if err != nil {
				return err
			}
			*slot(s) = value
			return nil
		},
		get: func(s Settings) any {
			return *slot(&s)
		},
	}
}

// fields lists every setting in declaration order.
var fields = []field{
	newField("MLFS_DIR", func(s *Settings) *string { return &s.MLFSDir }, coerceString),

	newField("HOPSWORKS_API_KEY", func(s *Settings) *Secret { return &s.HopsworksAPIKey }, coerceSecret),
	newField("HOPSWORKS_PROJECT", func(s *Settings) *Secret { return &s.HopsworksProject }, coerceSecret),
	newField("HOPSWORKS_HOST", func(s *Settings) *Secret { return &s.HopsworksHost }, coerceSecret),

	newField("AQICN_API_KEY", func(s *Settings) *Secret { return &s.AQICNAPIKey }, coerceSecret),
	newField("AQICN_COUNTRY", func(s *Settings) *string { return &s.AQICNCountry }, coerceString),
	newField("AQICN_CITY", func(s *Settings) *string { return &s.AQICNCity }, coerceString),
	newField("AQICN_STREET", func(s *Settings) *string { return &s.AQICNStreet }, coerceString),
	newField("AQICN_URL", func(s *Settings) *string { return &s.AQICNURL }, coerceString),

	newField("FELDERA_API_KEY", func(s *Settings) *Secret { return &s.FelderaAPIKey }, coerceSecret),
	newField("OPENAI_API_KEY", func(s *Settings) *Secret { return &s.OpenAIAPIKey }, coerceSecret),
	newField("OPENAI_MODEL_ID", func(s *Settings) *string { return &s.OpenAIModelID }, coerceString),

	newField("FRAUD_DATA_SIZE", func(s *Settings) *FraudDatasetSize { return &s.FraudDataSize }, coerceFraudDatasetSize),
	newField("EMBEDDING_MODEL", func(s *Settings) *string { return &s.EmbeddingModel }, coerceString),

	newField("TWO_TOWER_MODEL_EMBEDDING_SIZE", func(s *Settings) *int { return &s.TwoTowerEmbeddingSize }, coerceInt),
	newField("TWO_TOWER_MODEL_BATCH_SIZE", func(s *Settings) *int { return &s.TwoTowerBatchSize }, coerceInt),
	newField("TWO_TOWER_NUM_EPOCHS", func(s *Settings) *int { return &s.TwoTowerNumEpochs }, coerceInt),
	newField("TWO_TOWER_WEIGHT_DECAY", func(s *Settings) *float64 { return &s.TwoTowerWeightDecay }, coerceFloat),
	newField("TWO_TOWER_LEARNING_RATE", func(s *Settings) *float64 { return &s.TwoTowerLearningRate }, coerceFloat),
	newField("TWO_TOWER_DATASET_VALIDATON_SPLIT_SIZE", func(s *Settings) *float64 { return &s.TwoTowerValidationSplitSize }, coerceFloat),
	newField("TWO_TOWER_DATASET_TEST_SPLIT_SIZE", func(s *Settings) *float64 { return &s.TwoTowerTestSplitSize }, coerceFloat),

	newField("RANKING_DATASET_VALIDATON_SPLIT_SIZE", func(s *Settings) *float64 { return &s.RankingValidationSplitSize }, coerceFloat),
	newField("RANKING_LEARNING_RATE", func(s *Settings) *float64 { return &s.RankingLearningRate }, coerceFloat),
	newField("RANKING_ITERATIONS", func(s *Settings) *int { return &s.RankingIterations }, coerceInt),
	newField("RANKING_SCALE_POS_WEIGHT", func(s *Settings) *int { return &s.RankingScalePosWeight }, coerceInt),
	newField("RANKING_EARLY_STOPPING_ROUNDS", func(s *Settings) *int { return &s.RankingEarlyStoppingRounds }, coerceInt),

	newField("RANKING_MODEL_TYPE", func(s *Settings) *RankingModelType { return &s.RankingModelType }, coerceRankingModelType),
	newField("CUSTOM_HOPSWORKS_INFERENCE_ENV", func(s *Settings) *string { return &s.CustomInferenceEnv }, coerceString),
}

var fieldIndex = indexFields(fields)

func indexFields(list []field) map[string]field {
	index := make(map[string]field, len(list))
	for _, f := range list {
		index[f.name] = f
	}
	return index
}

// FieldNames returns the declared setting names in declaration order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// IsField reports whether name is a declared setting.
func IsField(name string) bool {
	_, ok := fieldIndex[name]
	return ok
}

func coerceString(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", errNull
	case string:
		return v, nil
	default:
		return "", unsupported(raw, "string")
	}
}

func coerceSecret(raw any) (Secret, error) {
	switch v := raw.(type) {
	case nil:
		return Secret{}, nil
	case string:
		return NewSecret(v), nil
	case Secret:
		return v, nil
	default:
		return Secret{}, unsupported(raw, "secret string")
	}
}

func coerceInt(raw any) (int, error) {
	switch v := raw.(type) {
	case nil:
		return 0, errNull
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errNotInteger
		}
		return n, nil
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, errNotInteger
		}
		return int(v), nil
	case uint:
		if v > math.MaxInt {
			return 0, errNotInteger
		}
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, errNotInteger
		}
		return int(v), nil
	case float32:
		return integralFloat(float64(v))
	case float64:
		return integralFloat(v)
	default:
		return 0, unsupported(raw, "integer")
	}
}

func integralFloat(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v < math.MinInt || v > math.MaxInt {
		return 0, errNotInteger
	}
	return int(v), nil
}

func coerceFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, errNull
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, errNotNumber
		}
		return f, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, unsupported(raw, "number")
	}
}

func coerceFraudDatasetSize(raw any) (FraudDatasetSize, error) {
	switch v := raw.(type) {
	case nil:
		return "", errNull
	case string:
		return ParseFraudDatasetSize(v)
	case FraudDatasetSize:
		return ParseFraudDatasetSize(string(v))
	default:
		return "", unsupported(raw, "fraud dataset size")
	}
}

func coerceRankingModelType(raw any) (RankingModelType, error) {
	switch v := raw.(type) {
	case nil:
		return "", errNull
	case string:
		return ParseRankingModelType(v)
	case RankingModelType:
		return ParseRankingModelType(string(v))
	default:
		return "", unsupported(raw, "ranking model type")
	}
}

func unsupported(raw any, want string) error {
	return fmt.Errorf("a value of type %T is not a %s", raw, want)
}
