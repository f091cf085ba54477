package history

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	gerrors "github.com/matzehuels/gitlanes/pkg/errors"
)

func sample() Log {
	return Log{
		{ID: "a"},
		{ID: "b", Parents: []string{"a"}},
		{ID: "c", Parents: []string{"a"}},
		{ID: "d", Parents: []string{"b", "c"}},
	}
}

func TestCommitKinds(t *testing.T) {
	l := sample()
	if !l[0].IsRoot() || l[0].IsMerge() {
		t.Errorf("a: root=%v merge=%v, want root", l[0].IsRoot(), l[0].IsMerge())
	}
	if l[1].IsRoot() || l[1].IsMerge() {
		t.Errorf("b should be a regular commit")
	}
	if !l[3].IsMerge() {
		t.Errorf("d should be a merge")
	}
}

func TestLogChildren(t *testing.T) {
	kids := sample().Children()
	if got := kids["a"]; !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Children()[a] = %v, want [b c]", got)
	}
	if got := kids["d"]; len(got) != 0 {
		t.Errorf("Children()[d] = %v, want none", got)
	}
}

func TestLogIndexFirstWins(t *testing.T) {
	l := Log{{ID: "a"}, {ID: "b"}, {ID: "a"}}
	if got := l.Index()["a"]; got != 0 {
		t.Errorf("Index()[a] = %d, want 0", got)
	}
}

func TestLogExclude(t *testing.T) {
	tests := []struct {
		name     string
		prefixes []string
		want     Log
	}{
		{
			name: "no prefixes",
			want: sample(),
		},
		{
			name:     "drop branch tip",
			prefixes: []string{"c"},
			want: Log{
				{ID: "a"},
				{ID: "b", Parents: []string{"a"}},
				{ID: "d", Parents: []string{"b", "a"}},
			},
		},
		{
			name:     "drop both middles",
			prefixes: []string{"b", "c"},
			want: Log{
				{ID: "a"},
				{ID: "d", Parents: []string{"a"}},
			},
		},
		{
			name:     "empty prefix ignored",
			prefixes: []string{""},
			want:     sample(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sample().Exclude(tt.prefixes...)
			if len(got) != len(tt.want) {
				t.Fatalf("Exclude() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].ID != tt.want[i].ID || !slices.Equal(got[i].Parents, tt.want[i].Parents) {
					t.Errorf("Exclude()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		log      Log
		wantErr  bool
		wantCode gerrors.Code
	}{
		{name: "valid", log: sample()},
		{name: "unknown parent allowed", log: Log{{ID: "x", Parents: []string{"outside"}}}},
		{name: "empty id", log: Log{{ID: ""}}, wantErr: true, wantCode: gerrors.ErrCodeInvalidCommit},
		{name: "duplicate", log: Log{{ID: "a"}, {ID: "a"}}, wantErr: true, wantCode: gerrors.ErrCodeInvalidCommit},
		{
			name:     "parent after child",
			log:      Log{{ID: "b", Parents: []string{"a"}}, {ID: "a"}},
			wantErr:  true,
			wantCode: gerrors.ErrCodeInvalidOrder,
		},
		{
			name:     "self parent",
			log:      Log{{ID: "a", Parents: []string{"a"}}},
			wantErr:  true,
			wantCode: gerrors.ErrCodeInvalidOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.log)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !gerrors.Is(err, tt.wantCode) {
				t.Errorf("Validate() code = %v, want %v", gerrors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestParseGitLog(t *testing.T) {
	input := `d b c
c a

b a
a
`
	l, err := ParseGitLog(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseGitLog() error: %v", err)
	}
	if got := l.IDs(); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("IDs() = %v, want parents first [a b c d]", got)
	}
	if got := l[3].Parents; !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("d parents = %v, want [b c]", got)
	}
	if l[0].Parents != nil {
		t.Errorf("root parents = %v, want nil", l[0].Parents)
	}
}

func TestParseGitLogInvalid(t *testing.T) {
	_, err := ParseGitLog(strings.NewReader("abc\x01 def\n"))
	if !gerrors.Is(err, gerrors.ErrCodeInvalidCommit) {
		t.Errorf("ParseGitLog() error = %v, want INVALID_COMMIT", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(), &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if !slices.Equal(got.IDs(), sample().IDs()) {
		t.Errorf("round trip IDs = %v", got.IDs())
	}
}

func TestReadJSONInvalid(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{not json"))
	if !gerrors.Is(err, gerrors.ErrCodeInvalidFormat) {
		t.Errorf("ReadJSON() error = %v, want INVALID_FORMAT", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "log.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"id":"a"},{"id":"b","parents":["a"]}]`), 0644); err != nil {
		t.Fatal(err)
	}
	textPath := filepath.Join(dir, "log.txt")
	if err := os.WriteFile(textPath, []byte("b a\na\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, textPath} {
		l, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s) error: %v", path, err)
		}
		if !slices.Equal(l.IDs(), []string{"a", "b"}) {
			t.Errorf("ReadFile(%s) IDs = %v, want [a b]", path, l.IDs())
		}
	}

	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	if !gerrors.Is(err, gerrors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
