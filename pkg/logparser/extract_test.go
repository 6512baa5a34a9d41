package logparser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	prefix     = "iov-test-65759f684-pzpws iov-test 2025-06-28 20:18:06 --- [685fdd7e,0070d58f] DEBUG 6 --- [  XNIO-1 task-6] c.a.model.test.yourbatis.Executor        : "
	selectLine = prefix + "==>  Preparing: SELECT * FROM user WHERE id = ? AND deleted = 0 and sex = ?;"
	paramsLine = prefix + "==> Parameters: 1(Long), male(String)"
	noiseLine  = prefix + "==> Update user info."
	updateLine = prefix + "==>  Preparing: UPDATE user SET name = ?, age = ?, update_time = ?, id_card = ? WHERE id = ? AND deleted = ?;"
	updateArgs = prefix + "==> Parameters: zhangsan(String), 18(Integer), 2025-06-13 16:44:56.499(Timestamp), 123456789(Long), 1(Integer), 0(Integer)"
)

var logLines = []string{selectLine, paramsLine, noiseLine, updateLine, updateArgs}

func wantBatch() *Batch {
	return &Batch{
		SQLTemplates: []string{
			"SELECT * FROM user WHERE id = ? AND deleted = 0 and sex = ?;",
			"UPDATE user SET name = ?, age = ?, update_time = ?, id_card = ? WHERE id = ? AND deleted = ?;",
		},
		ValueLists: []string{
			"1(Long), male(String), ",
			"zhangsan(String), 18(Integer), 2025-06-13 16:44:56.499(Timestamp), 123456789(Long), 1(Integer), 0(Integer), ",
		},
	}
}

func TestExtract_BothStrategies(t *testing.T) {
	strategies := []Strategy{
		NewKeywordStrategy(nil, nil),
		NewLabelStrategy("", ""),
	}

	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			batch, ok := NewExtractor(WithStrategy(s)).Extract(logLines)
			if !ok {
				t.Fatal("Extract() returned no result")
			}
			if diff := cmp.Diff(wantBatch(), batch); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_Empty(t *testing.T) {
	if batch, ok := Extract(nil); ok || batch != nil {
		t.Errorf("Extract(nil) = %v, %v; want nil, false", batch, ok)
	}
	if batch, ok := Extract([]string{}); ok || batch != nil {
		t.Errorf("Extract([]) = %v, %v; want nil, false", batch, ok)
	}
}

func TestExtract_NoMatches(t *testing.T) {
	batch, ok := Extract([]string{"hello", "", "world"})
	if !ok {
		t.Fatal("Extract() should return a batch for non-empty input")
	}
	if !batch.Empty() {
		t.Errorf("Extract() = %+v, want empty batch", batch)
	}
	if batch.SQLTemplates == nil || batch.ValueLists == nil {
		t.Error("empty batch should carry non-nil slices")
	}
}

func TestExtractText(t *testing.T) {
	text := selectLine + "\r\n" + paramsLine + "\n"
	batch, ok := ExtractText(text)
	if !ok {
		t.Fatal("ExtractText() returned no result")
	}
	if len(batch.SQLTemplates) != 1 || len(batch.ValueLists) != 1 {
		t.Fatalf("ExtractText() = %+v", batch)
	}
	if batch.ValueLists[0] != "1(Long), male(String), " {
		t.Errorf("value list = %q", batch.ValueLists[0])
	}

	if _, ok := ExtractText(""); ok {
		t.Error("ExtractText(\"\") should return no result")
	}
}

func TestKeywordStrategy_Classify(t *testing.T) {
	s := NewKeywordStrategy(nil, nil)

	tests := []struct {
		name string
		line string
		want Line
	}{
		{
			name: "lowercase keyword",
			line: "debug: select id from t where a = ?  ",
			want: Line{Kind: LineSQL, Content: "select id from t where a = ?"},
		},
		{
			name: "earliest keyword wins",
			line: "x WITH cte AS (SELECT 1) DELETE FROM t WHERE id = ?",
			want: Line{Kind: LineSQL, Content: "WITH cte AS (SELECT 1) DELETE FROM t WHERE id = ?"},
		},
		{
			name: "keyword without placeholder",
			line: "==> Update user info.",
			want: Line{Kind: LineUnrelated},
		},
		{
			name: "keyword inside identifier",
			line: "Parameters: deleted(String), updated_at(Timestamp)",
			want: Line{Kind: LineValue, Content: "deleted(String), updated_at(Timestamp), "},
		},
		{
			name: "value line without colon",
			line: "  7(Integer), x(String)  ",
			want: Line{Kind: LineValue, Content: "7(Integer), x(String), "},
		},
		{
			name: "cut at the last colon before the first marker",
			line: "[main] Parameters: 2025-06-13 16:44:56.499(Timestamp)",
			want: Line{Kind: LineValue, Content: "56.499(Timestamp), "},
		},
		{
			name: "marker is case-sensitive",
			line: "Parameters: 1(long)",
			want: Line{Kind: LineUnrelated},
		},
		{
			name: "unrelated",
			line: "GET /health 200",
			want: Line{Kind: LineUnrelated},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, s.Classify(tt.line)); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestKeywordStrategy_CustomLists(t *testing.T) {
	s := NewKeywordStrategy([]string{"MERGE"}, []string{"(Decimal)"})

	if got := s.Classify("MERGE INTO t USING s ON t.id = ?"); got.Kind != LineSQL {
		t.Errorf("custom keyword not matched: %+v", got)
	}
	if got := s.Classify("SELECT * FROM t WHERE id = ?"); got.Kind != LineUnrelated {
		t.Errorf("default keyword should not match custom list: %+v", got)
	}
	if got := s.Classify("args: 1.50(Decimal)"); got.Kind != LineValue || got.Content != "1.50(Decimal), " {
		t.Errorf("custom marker not matched: %+v", got)
	}
}

func TestLabelStrategy_Classify(t *testing.T) {
	s := NewLabelStrategy("", "")

	tests := []struct {
		line string
		want Line
	}{
		{"==>  Preparing: SELECT 1", Line{Kind: LineSQL, Content: "SELECT 1"}},
		{"==> Parameters: 1(Long)", Line{Kind: LineValue, Content: "1(Long), "}},
		{"==> Parameters: ", Line{Kind: LineValue, Content: ", "}},
		{"<==      Total: 1", Line{Kind: LineUnrelated}},
		{"preparing: SELECT 1", Line{Kind: LineUnrelated}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, s.Classify(tt.line)); diff != "" {
			t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func TestNewStrategy(t *testing.T) {
	for _, name := range []string{"", StrategyKeyword, StrategyLabel} {
		if _, err := NewStrategy(name, nil, nil, "", ""); err != nil {
			t.Errorf("NewStrategy(%q) error = %v", name, err)
		}
	}
	if _, err := NewStrategy("regex", nil, nil, "", ""); err == nil {
		t.Error("NewStrategy(regex) expected error")
	}
}

func TestBatch_PairsAndJoined(t *testing.T) {
	b := &Batch{
		SQLTemplates: []string{"SELECT ?;", "DELETE FROM t WHERE id = ?;", "SELECT 2 WHERE x = ?;"},
		ValueLists:   []string{"1(Long), ", "2(Long), "},
	}

	want := []Pair{
		{Template: "SELECT ?;", Values: "1(Long), "},
		{Template: "DELETE FROM t WHERE id = ?;", Values: "2(Long), "},
		{Template: "SELECT 2 WHERE x = ?;"},
	}
	if diff := cmp.Diff(want, b.Pairs()); diff != "" {
		t.Errorf("Pairs() mismatch (-want +got):\n%s", diff)
	}

	sql, values := b.Joined()
	if sql != "SELECT ?;\nDELETE FROM t WHERE id = ?;\nSELECT 2 WHERE x = ?;" {
		t.Errorf("Joined() sql = %q", sql)
	}
	if values != "1(Long), 2(Long), " {
		t.Errorf("Joined() values = %q", values)
	}
}

func TestLineKind_String(t *testing.T) {
	for kind, want := range map[LineKind]string{LineSQL: "sql", LineValue: "value", LineUnrelated: "unrelated"} {
		if kind.String() != want {
			t.Errorf("%d.String() = %q, want %q", kind, kind.String(), want)
		}
	}
}
