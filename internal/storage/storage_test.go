package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spigell/interview-agent/internal/interview"
)

func testSnapshot(id string) *interview.Snapshot {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(15 * time.Minute)
	minutes := 15.0

	return &interview.Snapshot{
		SessionID:     id,
		CandidateName: "Jane Doe",
		StartTime:     start,
		EndTime:       &end,
		Status:        interview.StatusCompleted,
		Questions:     []interview.QuestionItem{{Category: interview.CategoryBehavioral, Question: "Q?", Asked: true, Answer: "A."}},
		ConversationHistory: []interview.ConversationEntry{
			{Speaker: interview.SpeakerInterviewer, Message: "Q?", Tag: "question_0"},
		},
		Metrics: interview.Metrics{TotalQuestions: 1, QuestionsAnswered: 1, DurationMinutes: &minutes},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	snap := testSnapshot("abc")
	path, err := store.Save(context.Background(), snap)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "interview_abc.json" {
		t.Fatalf("unexpected path %s", path)
	}

	snap.Status = interview.StatusCompleted
	snap.CandidateName = "Jane Q. Doe"
	if _, err := store.Save(context.Background(), snap); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(context.Background(), "abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CandidateName != "Jane Q. Doe" || got.Metrics.DurationMinutes == nil || *got.Metrics.DurationMinutes != 15 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if !reflect.DeepEqual(got.Questions, snap.Questions) {
		t.Fatalf("questions differ: %+v", got.Questions)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %d entries", len(entries))
	}
}

func TestFileStoreErrors(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Load(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Save(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil snapshot")
	}
	if _, err := store.Save(context.Background(), testSnapshot("../escape")); err == nil {
		t.Fatal("expected error for path separators in id")
	}

	if err := os.WriteFile(store.Path("broken"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Load(context.Background(), "broken"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

type fakeRedis struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	rdb := newFakeRedis()
	store := NewRedisStore(rdb, time.Hour)

	key, err := store.Save(context.Background(), testSnapshot("abc"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if key != "interview:session:abc" || rdb.ttls[key] != time.Hour {
		t.Fatalf("unexpected key %s ttl %v", key, rdb.ttls[key])
	}

	got, err := store.Load(context.Background(), "abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.SessionID != "abc" || got.Status != interview.StatusCompleted || len(got.ConversationHistory) != 1 {
		t.Fatalf("unexpected snapshot %+v", got)
	}

	if _, err := store.Load(context.Background(), "other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown session, got %v", err)
	}
}

func TestRedisStoreErrors(t *testing.T) {
	rdb := newFakeRedis()
	store := NewRedisStore(rdb, 0)

	rdb.data["interview:session:bad"] = "not json"
	if _, err := store.Load(context.Background(), "bad"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}

	rdb.err = errors.New("connection refused")
	if _, err := store.Save(context.Background(), testSnapshot("abc")); err == nil {
		t.Fatal("expected save error")
	}
	if _, err := store.Load(context.Background(), "abc"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestNewRedisClientRejectsEmptyAddress(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty address")
	}
	if _, err := NewRedisClient(context.Background(), "redis://localhost:notaport"); err == nil {
		t.Fatal("expected error for malformed url")
	}
}
