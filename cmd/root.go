package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/interview-agent/internal/interview"
)

const (
	app = "interview-agent"
)

type Config struct {
	Candidate *CandidateConfig `mapstructure:"candidate"`
	Interview *InterviewConfig `mapstructure:"interview"`
	Questions *QuestionsConfig `mapstructure:"questions"`
	AI        *AIConfig        `mapstructure:"ai"`
	Storage   *StorageConfig   `mapstructure:"storage"`
	Study     *StudyConfig     `mapstructure:"study"`
}

type CandidateConfig struct {
	Name               string `mapstructure:"name"`
	ResumeFile         string `mapstructure:"resume-file"`
	JobDescriptionFile string `mapstructure:"job-description-file"`
}

type InterviewConfig struct {
	QuestionsPerCategory int                      `mapstructure:"questions-per-category"`
	CallTimeout          time.Duration            `mapstructure:"call-timeout"`
	Categories           []interview.CategoryRule `mapstructure:"categories"`
}

type QuestionsConfig struct {
	File            string   `mapstructure:"file"`
	RemoteURL       string   `mapstructure:"remote-url"`
	TokenFile       string   `mapstructure:"token-file"`
	ExcludeFile     string   `mapstructure:"exclude-file"`
	ExcludedPhrases []string `mapstructure:"excluded-phrases"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type StorageConfig struct {
	Backend string       `mapstructure:"backend"`
	Dir     string       `mapstructure:"dir"`
	Redis   *RedisConfig `mapstructure:"redis"`
}

type StudyConfig struct {
	Fast                bool `mapstructure:"fast"`
	BehavioralQuestions int  `mapstructure:"behavioral-questions"`
	TechnicalQuestions  int  `mapstructure:"technical-questions"`
}

type RedisConfig struct {
	Addr string        `mapstructure:"addr"`
	TTL  time.Duration `mapstructure:"ttl"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "interview-agent runs an adaptive screening interview in the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env is optional; real environment variables always win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("storage.redis.addr", "REDIS_ADDR"); err != nil {
		log.Fatalf("binding REDIS_ADDR environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interview-agent.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("interview.questions-per-category", 2)
	viper.SetDefault("interview.call-timeout", "30s")
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 2)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("storage.backend", "file")
	viper.SetDefault("storage.dir", "sessions")
	viper.SetDefault("storage.redis.ttl", "720h")
	viper.SetDefault("study.behavioral-questions", 8)
	viper.SetDefault("study.technical-questions", 3)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Every setting can come from flags and defaults, so a missing default
	// config file is fine. An explicit or broken one is not.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}
	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Candidate == nil {
		config.Candidate = &CandidateConfig{}
	}
	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}
	if config.Questions == nil {
		config.Questions = &QuestionsConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.Storage.Redis == nil {
		config.Storage.Redis = &RedisConfig{}
	}
	if config.Study == nil {
		config.Study = &StudyConfig{}
	}

	return config, nil
}
