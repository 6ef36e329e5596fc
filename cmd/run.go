package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/filtering"
	"github.com/spigell/interview-agent/internal/interview"
	"github.com/spigell/interview-agent/internal/logger"
	"github.com/spigell/interview-agent/internal/storage"
)

const (
	PromptSummary    = "Show summary"
	PromptMetrics    = "Show metrics"
	PromptTranscript = "Dump transcript to file"
	PromptExit       = "Exit"
)

var errExit = errors.New("exit requested")

var menu = promptui.Select{
	Label: "Interview finished",
	Items: []string{PromptSummary, PromptMetrics, PromptTranscript, PromptExit},
}

var runCmd = &cobra.Command{
	Use:    "run",
	Short:  "Plan and run an interview in the terminal",
	PreRun: bindCandidateFlags,
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addCandidateFlags(runCmd)
	runCmd.Flags().StringP("exclude-file", "e", "", "file with already asked questions. Asked questions are appended after the interview")
	runCmd.Flags().BoolP("no-menu", "n", false, "do not show the menu after the interview")

	viper.BindPFlag("questions.exclude-file", runCmd.Flags().Lookup("exclude-file"))
}

func addCandidateFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "candidate name")
	cmd.Flags().String("resume", "", "path to the resume text")
	cmd.Flags().String("job", "", "path to the job description text")
}

// bindCandidateFlags binds the flags of the command being run. Several
// commands share the keys, so binding happens at run time.
func bindCandidateFlags(cmd *cobra.Command, _ []string) {
	viper.BindPFlag("candidate.name", cmd.Flags().Lookup("name"))
	viper.BindPFlag("candidate.resume-file", cmd.Flags().Lookup("resume"))
	viper.BindPFlag("candidate.job-description-file", cmd.Flags().Lookup("job"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
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

	logger.Info("starting the interview-agent", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	in, err := readInputs(config.Candidate)
	if err != nil {
		logger.Fatal("reading candidate inputs", zap.Error(err))
	}

	scorer, err := newScorer(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building ai scorer",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	source, err := newQuestionSource(config.Questions, logger)
	if err != nil {
		logger.Fatal("preparing question source", zap.Error(err))
	}
	for _, status := range filtering.Describe(source.Steps()) {
		logger.Debug("question filter", zap.String("name", status.Name), zap.Bool("enabled", status.Enabled), zap.Any("details", status.Details))
	}

	store, closeStore, err := newSnapshotStore(ctx, config.Storage)
	if err != nil {
		logger.Fatal("preparing snapshot storage", zap.Error(err))
	}
	defer closeStore()

	cfg := interviewConfig(config.Interview)
	planner := interview.NewPlanner(scorer, source, cfg, logger)
	engine := interview.NewEngine(scorer, cfg, logger)

	st, err := planner.Plan(ctx, in.resume, in.jobDescription, in.name)
	if err != nil {
		logger.Fatal("planning the interview", zap.Error(err))
	}

	sessionLogger := logger.With(zap.String("session_id", st.SessionID))
	save(ctx, store, st, sessionLogger)

	if greeting, ok := interview.CurrentPrompt(st); ok {
		say(greeting)
	}

	st, prompt, err := engine.Start(ctx, st)
	if err != nil {
		sessionLogger.Fatal("starting the interview", zap.Error(err))
	}

	st, err = converse(ctx, engine, st, prompt, sessionLogger)
	if err != nil {
		save(ctx, store, st, sessionLogger)
		if errors.Is(err, errExit) {
			sessionLogger.Info("interview interrupted; progress saved")
			return
		}
		sessionLogger.Fatal("running the interview", zap.Error(err))
	}

	save(ctx, store, st, sessionLogger)
	excludeAsked(config.Questions.ExcludeFile, st, sessionLogger)

	metrics := interview.ComputeMetrics(st)
	sessionLogger.Info("interview completed",
		zap.Int("questions_answered", metrics.QuestionsAnswered),
		zap.Int("follow_ups_asked", metrics.FollowUpsAsked),
		zap.Int("total_tokens_used", metrics.TotalTokensUsed),
	)
	if st.LastError != "" {
		sessionLogger.Warn("some assessments fell back to defaults", zap.String("last_error", st.LastError))
	}

	if noMenu, _ := cmd.Flags().GetBool("no-menu"); noMenu {
		return
	}

	for {
		_, action, err := menu.Run()
		if err != nil {
			return
		}
		if err := handleAction(action, st, sessionLogger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			sessionLogger.Fatal("exiting", zap.Error(err))
		}
	}
}

// converse reads answers until the interview completes. An interrupted prompt
// returns errExit together with the latest state.
func converse(ctx context.Context, engine *interview.Engine, st *interview.State, prompt string, log *zap.Logger) (*interview.State, error) {
	for st.Phase == interview.PhaseInterviewing {
		say(prompt)

		answerPrompt := promptui.Prompt{Label: "Your answer"}
		answer, err := answerPrompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return st, errExit
			}
			return st, err
		}

		next, nextPrompt, err := engine.SubmitAnswer(ctx, st, answer)
		if errors.Is(err, interview.ErrEmptyAnswer) {
			log.Info("empty answer ignored; please answer the question")
			continue
		}
		if err != nil {
			return st, err
		}

		st, prompt = next, nextPrompt
	}

	if closing, ok := interview.CurrentPrompt(st); ok {
		say(closing)
	}
	return st, nil
}

func handleAction(action string, st *interview.State, log *zap.Logger) error {
	switch action {
	case PromptSummary:
		pretty, _ := json.MarshalIndent(st.Summary, "", "  ")
		log.Info(string(pretty))
		return nil
	case PromptMetrics:
		metrics := interview.ComputeMetrics(st)
		if st.EndedAt != nil {
			metrics = metrics.WithDuration(st.StartedAt, *st.EndedAt)
		}
		pretty, _ := json.MarshalIndent(metrics, "", "  ")
		log.Info(string(pretty))
		return nil
	case PromptTranscript:
		filename, err := dumpTranscript(st)
		if err != nil {
			return fmt.Errorf("dump transcript to file: %w", err)
		}
		log.Info("dumping transcript to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func dumpTranscript(st *interview.State) (string, error) {
	file, err := os.CreateTemp("", "interview_transcript_*.txt")
	if err != nil {
		return "", err
	}
	defer file.Close()

	var b strings.Builder
	for _, entry := range st.ConversationHistory {
		fmt.Fprintf(&b, "[%s] %s: %s\n", entry.Tag, entry.Speaker, entry.Message)
	}
	if _, err := file.WriteString(b.String()); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func save(ctx context.Context, store storage.SnapshotStore, st *interview.State, log *zap.Logger) {
	snapshot := interview.NewSnapshot(st)
	location, err := store.Save(ctx, snapshot)
	if err != nil {
		log.Error("saving interview snapshot", zap.Error(err))
		return
	}
	log.Info("interview snapshot saved", zap.String("status", string(snapshot.Status)), zap.String("location", location))
}

func excludeAsked(path string, st *interview.State, log *zap.Logger) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}

	asked := filtering.AskedIn(st, time.Now())
	if err := filtering.AppendToFile(path, asked); err != nil {
		log.Error("appending asked questions to exclude file", zap.Error(err))
		return
	}
	log.Info("appended to exclude file", zap.String("filename", path), zap.Int("questions", len(asked.Items)))
}

func say(message string) {
	if message == "" {
		return
	}
	fmt.Printf("\n%s\n\n", message)
}
