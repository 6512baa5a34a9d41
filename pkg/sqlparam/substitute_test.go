package sqlparam

import (
	"strings"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	updateSQL    = "UPDATE user SET name = ?, age = ?, update_time = ?, id_card = ? WHERE id = ? AND deleted = ?;"
	updateValues = "zhangsan(String), 18(Integer), 2025-06-13 16:44:56.499(Timestamp), 123456789(Long), 1(Integer), 0(Integer)"
	updateWant   = "UPDATE user SET name = 'zhangsan', age = 18, update_time = '2025-06-13 16:44:56.499', id_card = 123456789 WHERE id = 1 AND deleted = 0;"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		values string
		want   string
	}{
		{
			name:   "update statement",
			sql:    updateSQL,
			values: updateValues,
			want:   updateWant,
		},
		{
			name: "multiple statements share one value sequence",
			sql: "SELECT * FROM user WHERE id = ? AND deleted = 0 and sex = ?;" +
				updateSQL,
			values: "1(Long), male(String), " + updateValues + ", ",
			want:   "SELECT * FROM user WHERE id = 1 AND deleted = 0 and sex = 'male';" + updateWant,
		},
		{
			name:   "statements on separate lines",
			sql:    "SELECT 1 FROM a WHERE x = ?;\nDELETE FROM b WHERE y = ?;",
			values: "7(Integer), 8(Long)",
			want:   "SELECT 1 FROM a WHERE x = 7;\nDELETE FROM b WHERE y = 8;",
		},
		{
			name:   "empty sql",
			sql:    "",
			values: updateValues + ";",
			want:   "",
		},
		{
			name:   "empty values",
			sql:    updateSQL,
			values: "",
			want:   "",
		},
		{
			name:   "both empty",
			sql:    "",
			values: "",
			want:   "",
		},
		{
			name:   "more placeholders than values",
			sql:    "INSERT INTO t VALUES (?, ?, ?)",
			values: "1(Integer)",
			want:   "INSERT INTO t VALUES (1, , )",
		},
		{
			name:   "more values than placeholders",
			sql:    "SELECT * FROM t WHERE id = ?",
			values: "1(Integer), 2(Integer), x(String)",
			want:   "SELECT * FROM t WHERE id = 1",
		},
		{
			name:   "untyped and unknown types are literal",
			sql:    "select * from user where username = ? and email = ? and age = ? and married = ?;",
			values: "zhangsan(String), null, 18(Integer), 1(Boolean)",
			want:   "select * from user where username = 'zhangsan' and email = null and age = 18 and married = 1;",
		},
		{
			name:   "no placeholders",
			sql:    "SELECT now()",
			values: "1(Integer)",
			want:   "SELECT now()",
		},
		{
			name:   "multi-byte text is preserved",
			sql:    "SELECT '名字' FROM t WHERE n = ?",
			values: "张三(String)",
			want:   "SELECT '名字' FROM t WHERE n = '张三'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.sql, tt.values); got != tt.want {
				t.Errorf("Substitute() =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestSubstitute_PreservesNonPlaceholderText(t *testing.T) {
	templates := []string{
		updateSQL,
		"SELECT ?\n\t; SELECT ?;",
		"???",
		"a ? b ? c ?",
	}
	// '#' never appears in the templates, so removing it leaves only copied text.
	values := "#(Integer), #(Long), #(Integer)"

	for _, sql := range templates {
		got := strings.ReplaceAll(Substitute(sql, values), "#", "")
		want := strings.ReplaceAll(sql, "?", "")
		if got != want {
			t.Errorf("Substitute(%q) copied text = %q, want %q", sql, got, want)
		}
	}
}

func TestSubstituter_Kind(t *testing.T) {
	s := New()
	tests := []struct {
		tag  string
		want Kind
	}{
		{"String", KindString},
		{"Timestamp", KindString},
		{"Integer", KindLiteral},
		{"Long", KindLiteral},
		{"", KindLiteral},
		{"string", KindLiteral},
	}

	for _, tt := range tests {
		if got := s.Kind(tt.tag); got != tt.want {
			t.Errorf("Kind(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestWithStringTypes(t *testing.T) {
	s := New(WithStringTypes("String", "Timestamp", "LocalDateTime"))

	got := s.Substitute("UPDATE t SET at = ? WHERE id = ?", "2025-01-01T00:00(LocalDateTime), 3(Long)")
	want := "UPDATE t SET at = '2025-01-01T00:00' WHERE id = 3"
	if got != want {
		t.Errorf("Substitute() = %q, want %q", got, want)
	}

	if k := New(WithStringTypes()).Kind("String"); k != KindString {
		t.Errorf("WithStringTypes() without tags should keep defaults, got %v", k)
	}
}

func TestSubstitute_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan string, 64)

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Substitute(updateSQL, updateValues); got != updateWant {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent Substitute() = %q", got)
	}
}

func TestCountPlaceholders(t *testing.T) {
	if got := CountPlaceholders(updateSQL); got != 6 {
		t.Errorf("CountPlaceholders() = %d, want 6", got)
	}
	if got := CountPlaceholders("SELECT 1"); got != 0 {
		t.Errorf("CountPlaceholders() = %d, want 0", got)
	}
}

func TestKind_String(t *testing.T) {
	if KindString.String() != "string" || KindLiteral.String() != "literal" {
		t.Errorf("unexpected kind names %q, %q", KindString, KindLiteral)
	}
}
