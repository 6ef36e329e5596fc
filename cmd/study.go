package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/ai"
	"github.com/spigell/interview-agent/internal/logger"
	"github.com/spigell/interview-agent/internal/questions"
	"github.com/spigell/interview-agent/internal/studyplan"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Build an interview study plan from a resume",
	PreRun: func(cmd *cobra.Command, _ []string) {
		viper.BindPFlag("candidate.resume-file", cmd.Flags().Lookup("resume"))
		viper.BindPFlag("study.fast", cmd.Flags().Lookup("fast"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		study(cmd)
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)

	studyCmd.Flags().String("resume", "", "path to the resume text")
	studyCmd.Flags().Bool("fast", false, "use keyword analysis and built-in answer guides instead of the model")
	studyCmd.Flags().StringP("output", "o", "", "write the study plan to this file instead of stdout")
}

func study(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	resume, err := readText("resume", config.Candidate.ResumeFile)
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}

	var scorer ai.Scorer
	if !config.Study.Fast {
		scorer, err = newScorer(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("building ai scorer", zap.Error(err), zap.String("hint", "use --fast to build the plan without the model"))
		}
	}

	source, err := newQuestionSource(config.Questions, logger)
	if err != nil {
		logger.Fatal("preparing question source", zap.Error(err))
	}

	practices, err := newPracticeSource(config.Questions)
	if err != nil {
		logger.Fatal("loading best practices", zap.Error(err))
	}

	builder := studyplan.NewBuilder(scorer, source, practices, &studyplan.Config{
		Fast:                config.Study.Fast,
		BehavioralQuestions: config.Study.BehavioralQuestions,
		TechnicalQuestions:  config.Study.TechnicalQuestions,
		CallTimeout:         config.Interview.CallTimeout,
	}, logger)

	plan, err := builder.Build(ctx, resume)
	if err != nil {
		logger.Fatal("building the study plan", zap.Error(err))
	}
	if plan.LastError != "" {
		logger.Warn("some parts of the study plan fell back to built-in guides", zap.String("last_error", plan.LastError))
	}

	pretty, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		logger.Fatal("encoding the study plan", zap.Error(err))
	}

	output, _ := cmd.Flags().GetString("output")
	if output = strings.TrimSpace(output); output == "" {
		fmt.Println(string(pretty))
		return
	}
	if err := os.WriteFile(output, pretty, 0o644); err != nil {
		logger.Fatal("writing the study plan", zap.String("filename", output), zap.Error(err))
	}
	logger.Info("study plan written", zap.String("filename", output), zap.Int("total_tokens_used", plan.TotalTokensUsed))
}

// newPracticeSource returns the bank holding interview tips: the configured
// bank file when set, the built-in bank otherwise.
func newPracticeSource(cfg *QuestionsConfig) (*questions.Bank, error) {
	if strings.TrimSpace(cfg.File) != "" {
		return questions.LoadBank(cfg.File)
	}
	return questions.DefaultBank()
}
