package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/ai"
	"github.com/spigell/interview-agent/internal/ai/gemini"
	"github.com/spigell/interview-agent/internal/ai/tokens"
	"github.com/spigell/interview-agent/internal/filtering"
	"github.com/spigell/interview-agent/internal/interview"
	"github.com/spigell/interview-agent/internal/logger"
	"github.com/spigell/interview-agent/internal/questions"
	"github.com/spigell/interview-agent/internal/secrets"
	"github.com/spigell/interview-agent/internal/storage"
)

// inputs are the texts the planner works from.
type inputs struct {
	name           string
	resume         string
	jobDescription string
}

func readInputs(cfg *CandidateConfig) (*inputs, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, errors.New("candidate name is required (candidate.name or --name)")
	}

	resume, err := readText("resume", cfg.ResumeFile)
	if err != nil {
		return nil, err
	}
	job, err := readText("job description", cfg.JobDescriptionFile)
	if err != nil {
		return nil, err
	}

	return &inputs{name: name, resume: resume, jobDescription: job}, nil
}

func readText(what, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%s file is not configured", what)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", what, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s file %q is empty", what, path)
	}
	return text, nil
}

func interviewConfig(cfg *InterviewConfig) *interview.Config {
	return &interview.Config{
		QuestionsPerCategory: cfg.QuestionsPerCategory,
		CallTimeout:          cfg.CallTimeout,
		Categories:           cfg.Categories,
	}
}

func newScorer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Scorer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		log.With(zap.String(logger.FieldProvider, "gemini"), zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)),
	)
	if err != nil {
		return nil, err
	}

	// the generator resolves the default model when none is configured
	aiLogger := logger.WithCommonFields(log, "gemini", generator.Model())

	scorer, err := gemini.NewScorer(generator, tokens.NewEstimator(), cfg.Gemini.MaxLogLength, aiLogger)
	if err != nil {
		return nil, err
	}
	return scorer, nil
}

func newQuestionSource(cfg *QuestionsConfig, log *zap.Logger) (*questions.Filtered, error) {
	var source interview.QuestionSource

	switch {
	case strings.TrimSpace(cfg.File) != "":
		bank, err := questions.LoadBank(cfg.File)
		if err != nil {
			return nil, err
		}
		log.Info("using question bank file", zap.String("path", cfg.File), zap.Int("questions", bank.Len()))
		source = bank
	case strings.TrimSpace(cfg.RemoteURL) != "":
		token := ""
		if strings.TrimSpace(cfg.TokenFile) != "" {
			var err error
			token, err = secrets.Load(secrets.Source{Name: "question service token", File: cfg.TokenFile})
			if err != nil {
				return nil, err
			}
		}
		log.Info("using remote question service", zap.String("url", cfg.RemoteURL))
		source = questions.NewClient(cfg.RemoteURL, token, log)
	default:
		bank, err := questions.DefaultBank()
		if err != nil {
			return nil, err
		}
		log.Debug("using built-in question bank", zap.Int("questions", bank.Len()))
		source = bank
	}

	return questions.NewFiltered(source, &filtering.Config{
		ExcludeFile:     cfg.ExcludeFile,
		ExcludedPhrases: cfg.ExcludedPhrases,
	}, nil, log)
}

// newSnapshotStore returns the configured store and a function releasing it.
func newSnapshotStore(ctx context.Context, cfg *StorageConfig) (storage.SnapshotStore, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "file":
		store, err := storage.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "redis":
		client, err := storage.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(client, cfg.Redis.TTL), func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
