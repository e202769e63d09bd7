package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
	Scraping ScrapingConfig `yaml:"scraping"`
	Content  ContentConfig  `yaml:"content"`
	Queue    QueueConfig    `yaml:"queue"`

	// Loaded from environment, not from config.yaml.
	OpenAIApiKey     string
	GeminiApiKey     string
	GeminiModel      string
	VideoServiceURL  string
	VideoApiKey      string
	ContentAPIURL    string
	ContentAPISecret string
	MongoURI         string
	MongoDBName      string
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type ScrapingConfig struct {
	MaxPages         int    `yaml:"max_pages"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	MinContentLength int    `yaml:"min_content_length"`
	UserAgent        string `yaml:"user_agent"`
}

type ContentConfig struct {
	MaxSummaryLength int `yaml:"max_summary_length"`
	MinContentLength int `yaml:"min_content_length"`
}

// QueueConfig controls the per-stage consumer pools and job-record retention.
type QueueConfig struct {
	// Concurrency is the number of consumer goroutines per stage topic.
	Concurrency int `yaml:"concurrency"`

	// RetentionHours is how long completed/failed job records are kept
	// before the TTL index removes them.
	RetentionHours int `yaml:"retention_hours"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}

	applyDefaults(&c)
	applyEnv(&c)
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func applyDefaults(c *AppConfig) {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Scraping.MaxPages == 0 {
		c.Scraping.MaxPages = 5
	}
	if c.Scraping.TimeoutSeconds == 0 {
		c.Scraping.TimeoutSeconds = 30
	}
	if c.Scraping.MinContentLength == 0 {
		c.Scraping.MinContentLength = 100
	}
	if c.Scraping.UserAgent == "" {
		c.Scraping.UserAgent = "Mozilla/5.0 (compatible; MitoBot/1.0)"
	}
	if c.Content.MaxSummaryLength == 0 {
		c.Content.MaxSummaryLength = 500
	}
	if c.Content.MinContentLength == 0 {
		c.Content.MinContentLength = 100
	}
	if c.Queue.Concurrency == 0 {
		c.Queue.Concurrency = 2
	}
	if c.Queue.RetentionHours == 0 {
		c.Queue.RetentionHours = 24
	}
}

// applyEnv overlays endpoints and secrets from the environment. Numeric
// tunables may also be overridden per deployment without editing config.yaml.
func applyEnv(c *AppConfig) {
	c.OpenAIApiKey = os.Getenv("OPENAI_API_KEY")
	c.GeminiApiKey = os.Getenv("GEMINI_API_KEY")
	c.GeminiModel = os.Getenv("GEMINI_MODEL")
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.0-flash"
	}
	c.VideoServiceURL = os.Getenv("VIDEO_SERVICE_URL")
	c.VideoApiKey = os.Getenv("VIDEO_SERVICE_API_KEY")
	c.ContentAPIURL = os.Getenv("CONTENT_API_URL")
	if c.ContentAPIURL == "" {
		c.ContentAPIURL = "http://localhost:3000"
	}
	c.ContentAPISecret = os.Getenv("CONTENT_API_SECRET")
	c.MongoURI = os.Getenv("MONGO_URI")
	c.MongoDBName = os.Getenv("MONGO_DB_NAME")

	if v := os.Getenv("SCRAPING_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scraping.MaxPages = n
		}
	}
	if v := os.Getenv("QUEUE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Queue.Concurrency = n
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
