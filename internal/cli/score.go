package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bias-assessment-service/internal/app"
	"bias-assessment-service/internal/config"
	"bias-assessment-service/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewScoreCmd scores an answer list offline and prints the summary.
func NewScoreCmd(configPath *string) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "score <answers>",
		Short: "Score comma-separated option indexes against the configured catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runScore(cmd, cfg, sessionID, args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id to record (generated when empty)")
	return cmd
}

func runScore(cmd *cobra.Command, cfg config.Config, sessionID, raw string, out io.Writer) error {
	answers, err := parseAnswers(raw)
	if err != nil {
		return err
	}

	// Scoring never persists: results go to a throwaway memory store.
	cfg.Store.Driver = config.StoreMemory
	cfg.Redis.Addr = ""
	d, err := buildDeps(cmd.Context(), cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer d.Close()

	if sessionID == "" {
		sessionID = d.service.NewSessionID()
	}
	if _, err := d.service.Submit(cmd.Context(), app.Submission{SessionID: sessionID, Answers: answers}); err != nil {
		return err
	}
	summary, err := d.service.Summary(cmd.Context(), sessionID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func parseAnswers(raw string) (domain.AnswerSet, error) {
	parts := strings.Split(raw, ",")
	out := make(domain.AnswerSet, 0, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not an option index", i, p)
		}
		out = append(out, n)
	}
	return out, nil
}
