package interview

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/interview-agent/internal/utils"
)

const (
	minScore = 1
	maxScore = 5

	followUpMaxWords = 20
	rawSummaryLimit  = 500
)

var errNoJSONObject = errors.New("response does not contain a json object")

// decodeObject parses raw as a JSON object and decodes it into out with weak
// typing, so "4" and 4.0 both land in an int field.
func decodeObject(raw string, out any) (map[string]any, error) {
	data, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return data, nil
}

// DecodeObject decodes the JSON object found in a model response into out.
// Code fences and text around the object are ignored.
func DecodeObject(raw string, out any) error {
	_, err := decodeObject(raw, out)
	return err
}

func parseObject(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil && data != nil {
		return data, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, errNoJSONObject
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &data); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if data == nil {
		return nil, errNoJSONObject
	}

	return data, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

type scoredAnswer struct {
	Completeness   *int   `mapstructure:"completeness"`
	Clarity        *int   `mapstructure:"clarity"`
	TechnicalDepth *int   `mapstructure:"technical_depth"`
	Relevance      *int   `mapstructure:"relevance"`
	NeedsFollowUp  *bool  `mapstructure:"needs_follow_up"`
	FollowUpReason string `mapstructure:"follow_up_reason"`
}

// parseAnswerAnalysis requires all four ratings. A missing needs_follow_up is
// read as false.
func parseAnswerAnalysis(raw string) (AnswerAnalysis, error) {
	var scored scoredAnswer
	if _, err := decodeObject(raw, &scored); err != nil {
		return AnswerAnalysis{}, err
	}

	missing := make([]string, 0, 4)
	for name, value := range map[string]*int{
		"completeness":    scored.Completeness,
		"clarity":         scored.Clarity,
		"technical_depth": scored.TechnicalDepth,
		"relevance":       scored.Relevance,
	} {
		if value == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return AnswerAnalysis{}, fmt.Errorf("answer analysis is missing ratings: %s", strings.Join(missing, ", "))
	}

	analysis := AnswerAnalysis{
		Completeness:   clampScore(*scored.Completeness),
		Clarity:        clampScore(*scored.Clarity),
		TechnicalDepth: clampScore(*scored.TechnicalDepth),
		Relevance:      clampScore(*scored.Relevance),
		FollowUpReason: strings.TrimSpace(scored.FollowUpReason),
	}
	if scored.NeedsFollowUp != nil {
		analysis.NeedsFollowUp = *scored.NeedsFollowUp
	}

	return analysis, nil
}

func clampScore(v int) int {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}

func parseProfileAnalysis(raw string) (ProfileAnalysis, error) {
	var analysis ProfileAnalysis
	if _, err := decodeObject(raw, &analysis); err != nil {
		return ProfileAnalysis{}, err
	}
	analysis.TechnicalLevel = strings.TrimSpace(analysis.TechnicalLevel)
	return analysis, nil
}

// parseSummary falls back to the raw text when the response is not JSON.
func parseSummary(raw string) (Summary, error) {
	var summary Summary
	if _, err := decodeObject(raw, &summary); err != nil {
		return Summary{Raw: utils.Truncate(strings.TrimSpace(raw), rawSummaryLimit)}, err
	}
	return summary, nil
}

// parseFollowUp accepts {"follow_up": "..."}, {"question": "..."} or a bare
// question and keeps at most followUpMaxWords words.
func parseFollowUp(raw string) (string, error) {
	text := ""
	if data, err := parseObject(raw); err == nil {
		for _, key := range []string{"follow_up", "question", "text"} {
			if value, ok := data[key].(string); ok && strings.TrimSpace(value) != "" {
				text = value
				break
			}
		}
		if text == "" {
			return "", errors.New("follow-up response has no question text")
		}
	} else {
		text = extractJSON(raw)
	}

	text = strings.Trim(strings.TrimSpace(text), `"'`)
	text = utils.LimitWords(text, followUpMaxWords)
	if text == "" {
		return "", errors.New("follow-up response is empty")
	}
	return text, nil
}
