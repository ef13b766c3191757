package config

// process-wide configuration, populated from the environment
type Config struct {
	Environment   string `envconfig:"ENVIRONMENT" default:"development"`
	Port          string `envconfig:"PORT" default:"8080"`
	DatabaseURL   string `envconfig:"DATABASE_URL" required:"true"`
	RedisURL      string `envconfig:"REDIS_URL"`
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RateLimitGenerate  string   `envconfig:"RATE_LIMIT_GENERATE" default:"20-M"`

	// openai or anthropic, used for both completion stages
	TextProvider string `envconfig:"TEXT_PROVIDER" default:"openai"`

	// loaded separately so their variables keep unprefixed names
	OpenAI     OpenAIConfig     `ignored:"true"`
	Anthropic  AnthropicConfig  `ignored:"true"`
	Replicate  ReplicateConfig  `ignored:"true"`
	ElevenLabs ElevenLabsConfig `ignored:"true"`
	Blob       BlobConfig       `ignored:"true"`
}

// provider keys are optional at startup; each client fails closed on first use
type OpenAIConfig struct {
	APIKey           string `envconfig:"OPENAI_API_KEY"`
	AffirmationModel string `envconfig:"OPENAI_AFFIRMATION_MODEL" default:"gpt-4o-mini"`
	ImagePromptModel string `envconfig:"OPENAI_IMAGE_PROMPT_MODEL"`
	BaseURL          string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
}

type AnthropicConfig struct {
	APIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	Model   string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-haiku-latest"`
	BaseURL string `envconfig:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com/v1"`
}

type ReplicateConfig struct {
	APIToken string `envconfig:"REPLICATE_API_TOKEN"`
	Model    string `envconfig:"REPLICATE_NANO_BANANA_MODEL" default:"google/nano-banana"`
	Version  string `envconfig:"REPLICATE_NANO_BANANA_VERSION"`
	BaseURL  string `envconfig:"REPLICATE_BASE_URL" default:"https://api.replicate.com/v1"`
}

type ElevenLabsConfig struct {
	APIKey   string `envconfig:"ELEVENLABS_API_KEY"`
	TTSModel string `envconfig:"ELEVENLABS_TTS_MODEL" default:"eleven_multilingual_v2"`
	BaseURL  string `envconfig:"ELEVENLABS_BASE_URL" default:"https://api.elevenlabs.io/v1"`
}

type BlobConfig struct {
	Backend string `envconfig:"BLOB_BACKEND" default:"s3"`

	S3Endpoint      string `envconfig:"S3_ENDPOINT"`
	S3Region        string `envconfig:"S3_REGION" default:"auto"`
	S3Bucket        string `envconfig:"S3_BUCKET"`
	S3AccessKey     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey     string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`

	NATSURL    string `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
	NATSBucket string `envconfig:"NATS_BUCKET" default:"aiam-assets"`
}

const (
	BlobBackendS3   = "s3"
	BlobBackendNATS = "nats"
)
