package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/interview"
	"github.com/spigell/interview-agent/internal/logger"
)

var planCmd = &cobra.Command{
	Use:    "plan",
	Short:  "Build an interview plan and print it as JSON without running the interview",
	PreRun: bindCandidateFlags,
	Run: func(_ *cobra.Command, _ []string) {
		plan()
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addCandidateFlags(planCmd)
}

func plan() {
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

	in, err := readInputs(config.Candidate)
	if err != nil {
		logger.Fatal("reading candidate inputs", zap.Error(err))
	}

	scorer, err := newScorer(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai scorer", zap.Error(err))
	}

	source, err := newQuestionSource(config.Questions, logger)
	if err != nil {
		logger.Fatal("preparing question source", zap.Error(err))
	}

	planner := interview.NewPlanner(scorer, source, interviewConfig(config.Interview), logger)
	st, err := planner.Plan(ctx, in.resume, in.jobDescription, in.name)
	if err != nil {
		logger.Fatal("planning the interview", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(st.Plan, "", "  ")
	if err != nil {
		logger.Fatal("encoding the plan", zap.Error(err))
	}
	fmt.Println(string(pretty))

	logger.Info("plan built", zap.String("session_id", st.SessionID), zap.Int("total_tokens_used", st.TotalTokensUsed))
}
