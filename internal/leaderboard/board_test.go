package leaderboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newMemBoard(t *testing.T) *Board {
	t.Helper()
	b, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return b
}

func TestSubmitKeepsPersonalBest(t *testing.T) {
	b := newMemBoard(t)

	first := b.Submit("abc", 50)
	if first.PersonalBest != 50 || !first.Accepted {
		t.Fatalf("first submit = %+v, want personal best 50", first)
	}

	second := b.Submit("abc", 30)
	if second.PersonalBest != 50 {
		t.Errorf("second submit personal best = %d, want 50", second.PersonalBest)
	}
	if second.NewGlobalHighScore {
		t.Error("lower score reported a new global high score")
	}
	if best, _ := b.Best("abc"); best.PersonalBest != 50 {
		t.Errorf("stored best = %d, want 50", best.PersonalBest)
	}
}

func TestSubmitGlobalHighScore(t *testing.T) {
	b := newMemBoard(t)

	for i, s := range []int{10, 20, 30} {
		res := b.Submit(fmt.Sprintf("player-%d", i), s)
		if !res.NewGlobalHighScore {
			t.Errorf("score %d: expected new global high score", s)
		}
		if res.GlobalHighScore != s {
			t.Errorf("score %d: global = %d", s, res.GlobalHighScore)
		}
	}

	res := b.Submit("player-0", 25)
	if res.NewGlobalHighScore {
		t.Error("score below global reported as new high")
	}
	if res.PersonalBest != 25 || res.GlobalHighScore != 30 {
		t.Errorf("result = %+v", res)
	}

	if got := b.Submit("player-3", 30); got.NewGlobalHighScore {
		t.Error("tying the global high score should not count as new")
	}
}

func TestSubmitZeroIsNoop(t *testing.T) {
	b := newMemBoard(t)
	res := b.Submit("abc", 0)
	if !res.Accepted || res.PersonalBest != 0 || res.NewGlobalHighScore {
		t.Errorf("result = %+v", res)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestTopOrdering(t *testing.T) {
	b := newMemBoard(t)
	for i := range 15 {
		b.Submit(fmt.Sprintf("id-%02d", i), i*10)
	}
	b.Submit("aaa", 140)

	top := b.Top(DefaultTopN)
	if len(top) != 10 {
		t.Fatalf("len = %d, want 10", len(top))
	}
	if top[0].Identity != "aaa" || top[1].Identity != "id-14" {
		t.Errorf("tie order = %s, %s; want aaa before id-14", top[0].Identity, top[1].Identity)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Errorf("not descending at %d: %d > %d", i, top[i].Score, top[i-1].Score)
		}
	}

	st := b.Standings()
	if len(st.Entries) != 10 || st.GlobalHighScore != 140 {
		t.Errorf("Standings = %d entries, global %d", len(st.Entries), st.GlobalHighScore)
	}
}

func TestSubmitConcurrent(t *testing.T) {
	b := newMemBoard(t)

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			b.Submit("shared", score)
			b.Submit(fmt.Sprintf("p%d", score%7), score)
		}(i)
	}
	wg.Wait()

	if best, _ := b.Best("shared"); best.PersonalBest != 100 {
		t.Errorf("shared best = %d, want 100", best.PersonalBest)
	}
	if g := b.GlobalHighScore(); g != 100 {
		t.Errorf("global = %d, want 100", g)
	}
	if b.Len() != 8 {
		t.Errorf("Len() = %d, want 8", b.Len())
	}
}

func TestBoardPersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "scores.json")

	b, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("missing file should open empty, Len() = %d", b.Len())
	}
	b.Submit("alice", 12)
	b.Submit("bob", 40)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), `"globalHighScore": 40`) {
		t.Errorf("file missing global high score:\n%s", raw)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.GlobalHighScore() != 40 || reopened.Len() != 2 {
		t.Errorf("reopened: global %d, len %d", reopened.GlobalHighScore(), reopened.Len())
	}
	if best, _ := reopened.Best("alice"); best.PersonalBest != 12 {
		t.Errorf("alice best = %d, want 12", best.PersonalBest)
	}
}

func TestOpenExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	data := `{"scores": [["0xabc", 7], ["0xdef", 21.0]], "globalHighScore": 25}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if best, _ := b.Best("0xdef"); best.PersonalBest != 21 {
		t.Errorf("0xdef best = %d, want 21", best.PersonalBest)
	}
	if b.GlobalHighScore() != 25 {
		t.Errorf("global = %d, want 25", b.GlobalHighScore())
	}
}

func TestOpenMalformedFile(t *testing.T) {
	tests := map[string]string{
		"not json":      `{scores`,
		"short record":  `{"scores": [["abc"]]}`,
		"bad identity":  `{"scores": [[1, 2]]}`,
		"bad score":     `{"scores": [["abc", "x"]]}`,
		"record object": `{"scores": [{"id": "abc"}]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scores.json")
			if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Open(path, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	sub := filepath.Join(t.TempDir(), "sub")

	b, err := Open(filepath.Join(sub, "scores.json"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// A regular file where the directory should be makes every save fail
	if err := os.WriteFile(sub, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	res := b.Submit("abc", 9)
	if !res.Accepted || res.PersonalBest != 9 || !res.NewGlobalHighScore {
		t.Errorf("result = %+v", res)
	}
	if best, _ := b.Best("abc"); best.PersonalBest != 9 {
		t.Errorf("in-memory best = %d, want 9", best.PersonalBest)
	}
	if err := b.Flush(); err == nil {
		t.Error("Flush should report the write failure")
	}
}

func TestBestReportsGlobalAndUnknown(t *testing.T) {
	b, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b.Submit("abc", 7)
	b.Submit("def", 19)

	pb, ok := b.Best("abc")
	if !ok {
		t.Fatal("abc should be known")
	}
	want := PlayerBest{Identity: "abc", PersonalBest: 7, GlobalHighScore: 19}
	if pb != want {
		t.Errorf("Best(abc) = %+v, want %+v", pb, want)
	}

	if _, ok := b.Best("nobody"); ok {
		t.Error("Best(nobody) should report unknown")
	}
}
