package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsh/session"
	"jsh/vfs"
)

const testTree = `
Users:
  jack:
    a.txt: "hello\nworld"
    .profile: "export PS1"
    notes: {}
    Documents:
      cv.docx: true
      old: {}
`

func newSession(t *testing.T) session.Session {
	t.Helper()
	tree, err := vfs.LoadSnapshot(strings.NewReader(testTree))
	require.NoError(t, err)
	return session.New(tree, "jack", time.Time{})
}

func run(s session.Session, name string, handler session.Handler, args ...string) (session.Session, error) {
	h := session.NewHelpers(s, name, vfs.Resolver{})
	next, err := handler(h, args...)
	if next == nil {
		return h.Context, err
	}
	return *next, err
}

func data(lines []session.Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Data)
	}
	return out
}

func exists(s session.Session, p string) bool {
	_, ok := s.Filesystem.Lookup(vfs.ParsePath(p))
	return ok
}

func TestCat(t *testing.T) {
	s := newSession(t)

	tests := []struct {
		name  string
		arg   string
		lines []string
		kind  session.ErrorKind
		msg   string
	}{
		{name: "file", arg: "a.txt", lines: []string{"hello", "world"}},
		{name: "case insensitive", arg: "A.TXT", lines: []string{"hello", "world"}},
		{name: "absolute", arg: "/users/JACK/a.txt", lines: []string{"hello", "world"}},
		{name: "empty file", arg: "Documents/cv.docx", lines: []string{""}},
		{name: "missing", arg: "missing.txt", kind: session.KindNotFound, msg: "missing.txt: No such file or directory"},
		{name: "directory", arg: "Documents", kind: session.KindWrongType, msg: "Documents: Is a directory"},
		{name: "display casing in error", arg: "DOCUMENTS", kind: session.KindWrongType, msg: "DOCUMENTS: Is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := run(s, "cat", Cat, tt.arg)
			if tt.kind != session.KindNone {
				require.Error(t, err)
				assert.Equal(t, tt.kind, session.KindOf(err))
				assert.Equal(t, tt.msg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lines, data(next.Lines))
		})
	}
}

func TestCd(t *testing.T) {
	s := newSession(t)
	s.Directory = "/"

	t.Run("keeps typed casing", func(t *testing.T) {
		next, err := run(s, "cd", Cd, "/users/JACK")
		require.NoError(t, err)
		assert.Equal(t, "/users/JACK", next.Directory)
	})

	t.Run("defaults to home", func(t *testing.T) {
		next, err := run(s, "cd", Cd)
		require.NoError(t, err)
		assert.Equal(t, "/Users/jack", next.Directory)
	})

	t.Run("parent", func(t *testing.T) {
		home := s
		home.Directory = "/Users/jack"
		next, err := run(home, "cd", Cd, "..")
		require.NoError(t, err)
		assert.Equal(t, "/Users", next.Directory)
	})

	t.Run("root", func(t *testing.T) {
		next, err := run(s, "cd", Cd, "/")
		require.NoError(t, err)
		assert.Equal(t, "/", next.Directory)
	})

	t.Run("file", func(t *testing.T) {
		_, err := run(s, "cd", Cd, "~/a.txt")
		assert.Equal(t, session.KindWrongType, session.KindOf(err))
		assert.EqualError(t, err, "not a directory: a.txt")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := run(s, "cd", Cd, "nowhere")
		assert.Equal(t, session.KindNotFound, session.KindOf(err))
		assert.EqualError(t, err, "no such file or directory: nowhere")
	})
}

func TestLs(t *testing.T) {
	s := newSession(t)

	t.Run("hides dot entries", func(t *testing.T) {
		next, err := run(s, "ls", Ls)
		require.NoError(t, err)
		assert.Equal(t, []string{"drwx------ Documents", "-rw------- a.txt", "drwx------ notes"}, data(next.Lines))
	})

	t.Run("all", func(t *testing.T) {
		next, err := run(s, "ls", Ls, "-a")
		require.NoError(t, err)
		assert.Equal(t, []string{"-rw------- .profile", "drwx------ Documents", "-rw------- a.txt", "drwx------ notes"}, data(next.Lines))
		assert.Equal(t, colorHidden, next.Lines[0].Color)
		assert.Empty(t, next.Lines[1].Color)
		assert.Equal(t, colorFile, next.Lines[2].Color)
	})

	t.Run("bundled flag and target", func(t *testing.T) {
		next, err := run(s, "ls", Ls, "-la", "documents")
		require.NoError(t, err)
		assert.Equal(t, []string{"-rw------- cv.docx", "drwx------ old"}, data(next.Lines))
	})

	t.Run("file echoes display name", func(t *testing.T) {
		next, err := run(s, "ls", Ls, "A.txt")
		require.NoError(t, err)
		assert.Equal(t, []string{"A.txt"}, data(next.Lines))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := run(s, "ls", Ls, "ghost")
		assert.EqualError(t, err, "ghost: No such file or directory")
	})
}

func TestTouch(t *testing.T) {
	s := newSession(t)

	next, err := run(s, "touch", Touch, "new.txt")
	require.NoError(t, err)
	assert.True(t, exists(next, "/Users/jack/new.txt"))

	out, err := run(next, "cat", Cat, "new.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, data(out.Lines))

	_, err = run(next, "touch", Touch, "NEW.txt")
	assert.Equal(t, session.KindAlreadyExists, session.KindOf(err))
	assert.EqualError(t, err, "NEW.txt: File exists")

	_, err = run(s, "touch", Touch)
	assert.Equal(t, session.KindUsage, session.KindOf(err))
	assert.EqualError(t, err, "invalid arguments. usage: touch [FILE]")

	_, err = run(s, "touch", Touch, "nope/file.txt")
	assert.Equal(t, session.KindNotFound, session.KindOf(err))
	assert.False(t, exists(s, "/Users/jack/nope"))
}

func TestRm(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		s := newSession(t)
		_, err := run(s, "rm", Rm, "A.TXT")
		require.NoError(t, err)
		assert.False(t, exists(s, "/Users/jack/a.txt"))
	})

	t.Run("directory needs recursive flag", func(t *testing.T) {
		s := newSession(t)
		_, err := run(s, "rm", Rm, "Documents")
		assert.Equal(t, session.KindWrongType, session.KindOf(err))
		assert.True(t, exists(s, "/Users/jack/Documents"))

		_, err = run(s, "rm", Rm, "-r", "Documents")
		require.NoError(t, err)
		assert.False(t, exists(s, "/Users/jack/Documents"))
	})

	t.Run("all or nothing", func(t *testing.T) {
		tests := [][]string{
			{"a.txt", "missing"},
			{"a.txt", "notes"},
			{"notes", "a.txt", "Documents/ghost"},
		}
		for _, args := range tests {
			s := newSession(t)
			_, err := run(s, "rm", Rm, args...)
			require.Error(t, err)
			assert.True(t, exists(s, "/Users/jack/a.txt"), "args %v", args)
			assert.True(t, exists(s, "/Users/jack/notes"), "args %v", args)
		}
	})

	t.Run("multiple targets", func(t *testing.T) {
		s := newSession(t)
		_, err := run(s, "rm", Rm, "-rf", "a.txt", "notes", "Documents")
		require.NoError(t, err)
		assert.False(t, exists(s, "/Users/jack/a.txt"))
		assert.False(t, exists(s, "/Users/jack/notes"))
		assert.False(t, exists(s, "/Users/jack/Documents"))
	})

	t.Run("usage", func(t *testing.T) {
		_, err := run(newSession(t), "rm", Rm, "-r")
		assert.EqualError(t, err, "invalid arguments. usage: rm [FILE]")
	})
}

func TestMkdir(t *testing.T) {
	s := newSession(t)

	_, err := run(s, "mkdir", Mkdir, "projects", "tmp")
	require.NoError(t, err)
	info, ok := s.Filesystem.Lookup(vfs.ParsePath("/Users/jack/projects"))
	require.True(t, ok)
	assert.Equal(t, vfs.KindDirectory, info.Type)

	_, err = run(s, "mkdir", Mkdir, "new", "Projects")
	assert.EqualError(t, err, "Projects: File exists")
	assert.False(t, exists(s, "/Users/jack/new"))

	_, err = run(s, "mkdir", Mkdir, "a/b")
	assert.EqualError(t, err, "b: No such file or directory")

	_, err = run(s, "mkdir", Mkdir, "x", "y", "X")
	assert.EqualError(t, err, "X: File exists")
	assert.False(t, exists(s, "/Users/jack/x"))
	assert.False(t, exists(s, "/Users/jack/y"))

	_, err = run(s, "mkdir", Mkdir)
	assert.Equal(t, session.KindUsage, session.KindOf(err))
}

func TestClear(t *testing.T) {
	s := newSession(t)
	s.Lines = []session.Line{{Data: "x"}}

	once, err := run(s, "clear", Clear)
	require.NoError(t, err)
	twice, err := run(once, "clear", Clear)
	require.NoError(t, err)

	assert.Empty(t, once.Lines)
	assert.Empty(t, twice.Lines)
	assert.Equal(t, s.Directory, twice.Directory)
	assert.Equal(t, s.Profile, twice.Profile)
	assert.Same(t, s.Filesystem, twice.Filesystem)
}

func TestUtility(t *testing.T) {
	s := newSession(t)

	next, _ := run(s, "pwd", Pwd)
	assert.Equal(t, []string{"/Users/jack"}, data(next.Lines))

	next, _ = run(s, "echo", Echo, "hello", "there")
	assert.Equal(t, []string{"hello there"}, data(next.Lines))

	next, _ = run(s, "whoami", Whoami)
	assert.Equal(t, []string{"jack"}, data(next.Lines))

	require.True(t, s.AppendHistory("ls"))
	require.True(t, s.AppendHistory("cat a.txt"))
	next, _ = run(s, "history", History)
	assert.Equal(t, []string{"    1  ls", "    2  cat a.txt"}, data(next.Lines))
}

func TestHelp(t *testing.T) {
	r := Default()
	next, err := run(newSession(t), "help", r["help"].Run)
	require.NoError(t, err)

	out := data(next.Lines)
	require.Len(t, out, len(r)+1)
	assert.Equal(t, "Available commands:", out[0])
	assert.Contains(t, out[1], "cat [FILE]")
	assert.Contains(t, out[1], "Print a file.")
}
