package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Onnx     OnnxConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AiLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	BodyLimitMB        int
	ReprocessTopic     string
}

type DatabaseConfig struct {
	// Connection is a postgres DSN. Empty means the local SQLite file below.
	Connection string
	SQLitePath string
}

type APIKeys struct {
	OpenAI      string
	HuggingFace string
}

type AIConfig struct {
	LLMProvider       string // "ollama", "openai", "huggingface" or "none"
	LLMModel          string
	OllamaBaseURL     string
	OllamaVisionModel string
	OpenAIBaseURL     string
	OpenAIVisionModel string
	WhisperModel      string

	HuggingFaceBaseURL  string
	HFSummaryModel      string
	HFSentimentModel    string
	HFCaptionModel      string
	HFDocumentModel     string
	HFWhisperModel      string
	HFSpeechModel       string
	RemoteRatePerSecond float64
	RemoteBurst         int

	EnrichmentTimeout   time.Duration
	SentimentThreshold  float64
	MaxKeywords         int
	SummaryMaxLength    int
	SummaryMinLength    int
	DisableKeywordTfidf bool
	LexiconPath         string
	CacheTTL            time.Duration
}

type OnnxConfig struct {
	LibraryPath        string
	SentimentModelPath string
	TokenizerPath      string
	UseCUDA            bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AiLogFilePath:      getEnv("AI_LOG_FILE_PATH", "logs/ai.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			BodyLimitMB:        getEnvAsInt("MAX_CONTENT_LENGTH_MB", 16),
			ReprocessTopic:     getEnv("REPROCESS_NOTE_TOPIC_NAME", "REPROCESS_NOTE"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			SQLitePath: getEnv("SQLITE_PATH", "smart_notes.db"),
		},
		Keys: APIKeys{
			OpenAI:      getEnv("OPENAI_API_KEY", ""),
			HuggingFace: getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "none"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaVisionModel: getEnv("OLLAMA_VISION_MODEL", "llava"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OpenAIVisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o-mini"),
			WhisperModel:      getEnv("OPENAI_WHISPER_MODEL", "whisper-1"),

			HuggingFaceBaseURL:  getEnv("HUGGINGFACE_INFERENCE_URL", "https://router.huggingface.co/hf-inference/models"),
			HFSummaryModel:      getEnv("HF_SUMMARY_MODEL", "facebook/bart-large-cnn"),
			HFSentimentModel:    getEnv("HF_SENTIMENT_MODEL", "cardiffnlp/twitter-roberta-base-sentiment-latest"),
			HFCaptionModel:      getEnv("HF_CAPTION_MODEL", "Salesforce/blip-image-captioning-base"),
			HFDocumentModel:     getEnv("HF_DOCUMENT_MODEL", "microsoft/trocr-base-printed"),
			HFWhisperModel:      getEnv("HF_WHISPER_MODEL", "openai/whisper-base"),
			HFSpeechModel:       getEnv("HF_SPEECH_MODEL", "facebook/wav2vec2-base-960h"),
			RemoteRatePerSecond: getEnvAsFloat("AI_REMOTE_RATE_PER_SECOND", 5),
			RemoteBurst:         getEnvAsInt("AI_REMOTE_BURST", 5),

			EnrichmentTimeout:   time.Duration(getEnvAsInt("ENRICHMENT_TIMEOUT_SECONDS", 10)) * time.Second,
			SentimentThreshold:  getEnvAsFloat("SENTIMENT_CONFIDENCE_THRESHOLD", 0.6),
			MaxKeywords:         getEnvAsInt("MAX_KEYWORDS", 10),
			SummaryMaxLength:    getEnvAsInt("SUMMARY_MAX_LENGTH", 150),
			SummaryMinLength:    getEnvAsInt("SUMMARY_MIN_LENGTH", 30),
			DisableKeywordTfidf: getEnvAsBool("DISABLE_KEYWORD_TFIDF", false),
			LexiconPath:         getEnv("LEXICON_PATH", ""),
			CacheTTL:            time.Duration(getEnvAsInt("ENRICHMENT_CACHE_TTL_MINUTES", 60)) * time.Minute,
		},
		Onnx: OnnxConfig{
			LibraryPath:        getEnv("ONNXRUNTIME_LIB_PATH", ""),
			SentimentModelPath: getEnv("ONNX_SENTIMENT_MODEL_PATH", ""),
			TokenizerPath:      getEnv("ONNX_SENTIMENT_TOKENIZER_PATH", ""),
			UseCUDA:            getEnvAsBool("ONNX_USE_CUDA", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
