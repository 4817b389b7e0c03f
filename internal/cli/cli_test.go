package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"bias-assessment-service/internal/catalog"
	"bias-assessment-service/internal/config"
	"bias-assessment-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func correctAnswerArg() string {
	var parts []string
	for _, q := range catalog.Seed().Questions {
		parts = append(parts, strconv.Itoa(q.CorrectOptionIndex))
	}
	return strings.Join(parts, ",")
}

func TestScoreCommandPrintsSummary(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "absent.yaml"),
		"score", "--session", "cli-1", correctAnswerArg(),
	})
	require.NoError(t, cmd.Execute())

	var summary domain.ResultSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "cli-1", summary.Result.SessionID)
	assert.Equal(t, 100, summary.Result.TotalScore)
	assert.Equal(t, "Excellent Awareness Level", summary.Interpretation.Level)
}

func TestScoreCommandRejectsBadInput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "score", "0,1,x"})
	assert.Error(t, cmd.Execute())

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "score", "0,1"})
	assert.Error(t, cmd.Execute())
}

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers(" 0, 2 ,1")
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerSet{0, 2, 1}, got)

	_, err = parseAnswers("")
	assert.Error(t, err)
}

func TestBuildDepsSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = config.StoreSQLite
	cfg.Store.SQLitePath = "file:" + filepath.Join(t.TempDir(), "results.db")

	d, err := buildDeps(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer d.Close()

	questions, err := d.service.Questions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 15)
}

func TestBuildDepsRejectsMisconfiguredStores(t *testing.T) {
	for _, driver := range []string{config.StoreRedis, config.StorePostgres, "cassandra"} {
		cfg := config.Default()
		cfg.Store.Driver = driver
		_, err := buildDeps(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err, driver)
	}
}

func TestStartStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "--port", "0", "start"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("start did not return after cancellation")
	}
}
