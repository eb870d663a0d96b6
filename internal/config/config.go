package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Database    DatabaseConfig
	Storage     StorageConfig
	Recognizer  RecognizerConfig
	Enhancer    EnhancerConfig
	Recognition RecognitionConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL; empty or unreachable falls back to SQLite
	SQLitePath   string // path of the embedded fallback database file
	MaxOpenConns int    // maximum open connections (default 25)
	MaxIdleConns int    // maximum idle connections (default 5)
}

type StorageConfig struct {
	EncodingDir string // directory for face encoding blobs
	EvidenceDir string // directory for evidentiary attendance crops
}

type RecognizerConfig struct {
	URL string // face detection/encoding sidecar, defaults to http://localhost:8000
}

type EnhancerConfig struct {
	URL string // optional crop enhancement sidecar; empty disables enhancement
}

// RecognitionConfig carries the matching and cropping tuning values.
// Defaults come from the embedded defaults.yaml.
type RecognitionConfig struct {
	Tolerance    float64 `yaml:"tolerance"`
	CropMargin   int     `yaml:"crop_margin"`
	EmbeddingDim int     `yaml:"embedding_dim"`
}

type recognitionDefaults struct {
	Recognition RecognitionConfig `yaml:"recognition"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envString reads an environment variable, returning the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var defaults recognitionDefaults
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// Embedded file, so this can only happen on a broken build.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	rec := defaults.Recognition
	rec.Tolerance = envFloat("FACE_TOLERANCE", rec.Tolerance)
	rec.CropMargin = envInt("CROP_MARGIN", rec.CropMargin)
	rec.EmbeddingDim = envInt("EMBEDDING_DIM", rec.EmbeddingDim)

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			SQLitePath:   envString("SQLITE_PATH", "faceclock.db"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Storage: StorageConfig{
			EncodingDir: envString("ENCODING_DIR", "data/encodings"),
			EvidenceDir: envString("EVIDENCE_DIR", "data/attendance"),
		},
		Recognizer: RecognizerConfig{
			URL: envString("RECOGNIZER_URL", "http://localhost:8000"),
		},
		Enhancer: EnhancerConfig{
			URL: os.Getenv("ENHANCER_URL"),
		},
		Recognition: rec,
	}
}
