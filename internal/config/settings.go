package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	defaultAQICNCountry       = "sweden"
	defaultAQICNCity          = "stockholm"
	defaultAQICNStreet        = "hornsgatan-108"
	defaultAQICNURL           = "https://api.waqi.info/feed/@10009"
	defaultOpenAIModelID      = "gpt-4o-mini"
	defaultEmbeddingModel     = "all-MiniLM-L6-v2"
	defaultCustomInferenceEnv = "custom_env_name"
)

// Settings is the resolved configuration snapshot for one process run.
// It is a value type and is not mutated after Load returns.
type Settings struct {
	MLFSDir string `env:"MLFS_DIR"`

	// Passed to the Hopsworks login; mirrored into the environment when unset there.
	HopsworksAPIKey  Secret `env:"HOPSWORKS_API_KEY"`
	HopsworksProject Secret `env:"HOPSWORKS_PROJECT"`
	HopsworksHost    Secret `env:"HOPSWORKS_HOST"`

	// Air quality
	AQICNAPIKey  Secret `env:"AQICN_API_KEY"`
	AQICNCountry string `env:"AQICN_COUNTRY"`
	AQICNCity    string `env:"AQICN_CITY"`
	AQICNStreet  string `env:"AQICN_STREET"`
	AQICNURL     string `env:"AQICN_URL"`

	FelderaAPIKey Secret `env:"FELDERA_API_KEY"`
	OpenAIAPIKey  Secret `env:"OPENAI_API_KEY"`
	OpenAIModelID string `env:"OPENAI_MODEL_ID"`

	// Feature engineering
	FraudDataSize  FraudDatasetSize `env:"FRAUD_DATA_SIZE" validate:"oneof=LARGE MEDIUM SMALL"`
	EmbeddingModel string           `env:"EMBEDDING_MODEL"`

	// Personalized recommendations
	TwoTowerEmbeddingSize       int     `env:"TWO_TOWER_MODEL_EMBEDDING_SIZE" validate:"gt=0"`
	TwoTowerBatchSize           int     `env:"TWO_TOWER_MODEL_BATCH_SIZE" validate:"gt=0"`
	TwoTowerNumEpochs           int     `env:"TWO_TOWER_NUM_EPOCHS" validate:"gt=0"`
	TwoTowerWeightDecay         float64 `env:"TWO_TOWER_WEIGHT_DECAY" validate:"gte=0"`
	TwoTowerLearningRate        float64 `env:"TWO_TOWER_LEARNING_RATE" validate:"gt=0"`
	TwoTowerValidationSplitSize float64 `env:"TWO_TOWER_DATASET_VALIDATON_SPLIT_SIZE" validate:"gt=0,lt=1"`
	TwoTowerTestSplitSize       float64 `env:"TWO_TOWER_DATASET_TEST_SPLIT_SIZE" validate:"gt=0,lt=1"`

	RankingValidationSplitSize float64 `env:"RANKING_DATASET_VALIDATON_SPLIT_SIZE" validate:"gt=0,lt=1"`
	RankingLearningRate        float64 `env:"RANKING_LEARNING_RATE" validate:"gt=0"`
	RankingIterations          int     `env:"RANKING_ITERATIONS" validate:"gt=0"`
	RankingScalePosWeight      int     `env:"RANKING_SCALE_POS_WEIGHT" validate:"gt=0"`
	RankingEarlyStoppingRounds int     `env:"RANKING_EARLY_STOPPING_ROUNDS" validate:"gt=0"`

	// Inference
	RankingModelType   RankingModelType `env:"RANKING_MODEL_TYPE" validate:"oneof=ranking llmranking"`
	CustomInferenceEnv string           `env:"CUSTOM_HOPSWORKS_INFERENCE_ENV"`
}

// Defaults returns the compiled-in settings, rooted at installDir.
func Defaults(installDir string) Settings {
	return Settings{
		MLFSDir: installDir,

		AQICNCountry: defaultAQICNCountry,
		AQICNCity:    defaultAQICNCity,
		AQICNStreet:  defaultAQICNStreet,
		AQICNURL:     defaultAQICNURL,

		OpenAIModelID: defaultOpenAIModelID,

		FraudDataSize:  FraudDatasetSmall,
		EmbeddingModel: defaultEmbeddingModel,

		TwoTowerEmbeddingSize:       16,
		TwoTowerBatchSize:           2048,
		TwoTowerNumEpochs:           10,
		TwoTowerWeightDecay:         0.001,
		TwoTowerLearningRate:        0.01,
		TwoTowerValidationSplitSize: 0.1,
		TwoTowerTestSplitSize:       0.1,

		RankingValidationSplitSize: 0.1,
		RankingLearningRate:        0.2,
		RankingIterations:          100,
		RankingScalePosWeight:      10,
		RankingEarlyStoppingRounds: 5,

		RankingModelType:   RankingModelRanking,
		CustomInferenceEnv: defaultCustomInferenceEnv,
	}
}

// DefaultInstallDir returns the directory holding the running executable,
// falling back to the working directory.
func DefaultInstallDir() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Fields renders every setting in declaration order with secrets masked.
func (s Settings) Fields() []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{
			Name:   f.name,
			Value:  renderValue(f.get(s)),
			Secret: f.secret,
		}
	}
	return out
}

func (s Settings) String() string {
	var b strings.Builder
	b.WriteString("Settings{")
	for i, f := range s.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(f.Value))
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalLogObject lets Settings be logged with zap.Object; secrets stay masked.
func (s Settings) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, f := range s.Fields() {
		enc.AddString(f.Name, f.Value)
	}
	return nil
}

func renderValue(v any) string {
	switch value := v.(type) {
	case Secret:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
