package sessionlog_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/neurofitplus/neurofit/internal/adapters/sessionlog"
	"github.com/neurofitplus/neurofit/internal/domain/model"
	"github.com/neurofitplus/neurofit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func sampleSession(userID string) model.Session {
	return model.Session{
		UserID:    userID,
		Timestamp: "2026-01-15T09:30:00Z",
		Answers: model.AnswersFromMap(map[string]float64{
			model.QuestionSleepHours:  7,
			model.QuestionEnergyLevel: 3,
			model.QuestionStressLevel: 2,
		}),
		TypingFeatures: model.TypingFeatures{
			AverageLatencyMS: 120,
			TotalDurationMS:  5000,
			BackspaceRate:    0.03,
		},
		TaskPerformance: model.TaskPerformance{
			ReactionTimeMS:    350,
			ReactionAttempted: true,
		},
	}
}

func readLines(t *testing.T, path string) []model.Session {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var out []model.Session
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var s model.Session
		if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
			t.Fatalf("line %d not valid JSON: %v", len(out)+1, err)
		}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestNewJSONLStore(t *testing.T) {
	Convey("Given configuration options", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "sessions.jsonl")

		Convey("Construction starts the writer without panicking", func() {
			var store *sessionlog.JSONLStore
			So(func() {
				store = sessionlog.NewJSONLStore(path,
					sessionlog.WithQueueSize(8),
					sessionlog.WithName("testlog"),
				)
			}, ShouldNotPanic)
			So(store.Path(), ShouldEqual, path)

			_, err := store.Append(ctx, sampleSession("u-1"))
			So(err, ShouldBeNil)
			So(store.Close(), ShouldBeNil)
		})
	})
}

func TestJSONLStore(t *testing.T) {
	Convey("Given a store pointed at a fresh directory", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "data", "sessions.jsonl")
		store := sessionlog.NewJSONLStore(path)

		Convey("When a session is appended", func() {
			receipt, err := store.Append(ctx, sampleSession("u-1"))

			Convey("Then the receipt acknowledges the save", func() {
				So(err, ShouldBeNil)
				So(receipt.Status, ShouldEqual, "saved")
				So(receipt.File, ShouldEqual, path)
				So(receipt.Timestamp, ShouldNotBeEmpty)
			})

			Convey("And the record lands on disk as one JSON line", func() {
				So(store.Close(), ShouldBeNil)
				lines := readLines(t, path)
				So(lines, ShouldHaveLength, 1)
				So(lines[0].UserID, ShouldEqual, "u-1")
				So(lines[0].Answers.Value(model.QuestionSleepHours), ShouldEqual, 7)
			})
		})

		Convey("When sessions are appended concurrently", func() {
			const n = 50
			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := store.Append(ctx, sampleSession(fmt.Sprintf("u-%d", i)))
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)

			Convey("Then every append succeeds and every line parses", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				So(store.Close(), ShouldBeNil)

				lines := readLines(t, path)
				So(lines, ShouldHaveLength, n)
				seen := make(map[string]bool, n)
				for _, s := range lines {
					seen[s.UserID] = true
				}
				So(len(seen), ShouldEqual, n)
			})
		})

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)

			Convey("Then further appends are refused", func() {
				_, err := store.Append(ctx, sampleSession("late"))
				So(err, ShouldEqual, sessionlog.ErrClosed)
			})

			Convey("And closing again is a no-op", func() {
				So(store.Close(), ShouldBeNil)
			})
		})

		Convey("The append counter tracks successful saves", func() {
			So(store.Count(ctx), ShouldEqual, 0)
			_, err := store.Append(ctx, sampleSession("u-1"))
			So(err, ShouldBeNil)
			_, err = store.Append(ctx, sampleSession("u-2"))
			So(err, ShouldBeNil)
			So(store.Count(ctx), ShouldEqual, 2)
			So(store.Close(), ShouldBeNil)
		})

		Reset(func() {
			store.Close()
		})
	})

	Convey("Given a store whose destination cannot be created", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocked")
		So(os.WriteFile(blocker, []byte("file, not dir"), 0o600), ShouldBeNil)

		store := sessionlog.NewJSONLStore(filepath.Join(blocker, "sessions.jsonl"))
		defer store.Close()

		Convey("Appends surface the open failure instead of hanging", func() {
			_, err := store.Append(ctx, sampleSession("u-1"))
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, sessionlog.ErrOpen)
		})
	})
}
