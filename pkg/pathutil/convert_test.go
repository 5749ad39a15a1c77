package pathutil

import "testing"

func TestJoin(t *testing.T) {
	tests := []struct{ a, b, want string }{
		{"/a/b", "c", "/a/b/c"},
		{"/a/b/", "c", "/a/b/c"},
		{"/a/b", "/c", "/c"},
		{"", "c", "c"},
		{"/", "c", "/c"},
		{"/a/b", "c//d", "/a/b/c/d"},
	}
	for _, tt := range tests {
		if got := Join(tt.a, tt.b); got != tt.want {
			t.Errorf("Join(%q,%q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestJoinInvariant_NoDoubleSlashOrTrailing(t *testing.T) {
	cases := [][2]string{{"/a/b", "c"}, {"/", "x"}, {"/a", ""}, {"/a//b", "c"}}
	for _, c := range cases {
		got := Join(c[0], c[1])
		if got != "/" && len(got) > 1 && got[len(got)-1] == '/' {
			t.Errorf("Join(%q,%q)=%q has trailing slash", c[0], c[1], got)
		}
		for i := 0; i+1 < len(got); i++ {
			if got[i] == '/' && got[i+1] == '/' {
				t.Errorf("Join(%q,%q)=%q contains //", c[0], c[1], got)
			}
		}
	}
}

func TestIsSubpathOfJoin(t *testing.T) {
	bases := []string{"/a/b", "/", "/x/y/z"}
	subs := []string{"c", "c/d", "e"}
	for _, base := range bases {
		for _, sub := range subs {
			joined := Join(base, sub)
			if !IsSubpath(base, joined) {
				t.Errorf("IsSubpath(%q, Join(%q,%q)=%q) = false, want true", base, base, sub, joined)
			}
		}
	}
}

func TestRelativeTo(t *testing.T) {
	tests := []struct{ base, p, want string }{
		{"/a/b/c", "/a/b/d/e", "../d/e"},
		{"/a", "/b", "/b"},
		{"/a/b", "/a/b", "."},
		{"/a/b/c", "/a/b/c/d", "d"},
	}
	for _, tt := range tests {
		if got := RelativeTo(tt.base, tt.p); got != tt.want {
			t.Errorf("RelativeTo(%q,%q) = %q, want %q", tt.base, tt.p, got, tt.want)
		}
	}
}

func TestDirnameBasename(t *testing.T) {
	if got := Dirname(""); got != "." {
		t.Errorf("Dirname(\"\") = %q, want .", got)
	}
	if got := Dirname("/a/b"); got != "/a" {
		t.Errorf("Dirname(/a/b) = %q, want /a", got)
	}
	if got := Basename(""); got != "" {
		t.Errorf("Basename(\"\") = %q, want empty", got)
	}
	if got := Basename("/a/b"); got != "b" {
		t.Errorf("Basename(/a/b) = %q, want b", got)
	}
}

func TestIsAbsolute(t *testing.T) {
	if !IsAbsolute("/a") {
		t.Error("expected /a absolute")
	}
	if IsAbsolute("a/b") {
		t.Error("expected a/b relative")
	}
	if !IsAbsolute(`C:/windows`) {
		t.Error("expected drive-letter path absolute")
	}
}

func TestStemAndExt(t *testing.T) {
	stem, ext := StemAndExt("foo.c")
	if stem != "foo" || ext != ".c" {
		t.Errorf("StemAndExt(foo.c) = %q,%q", stem, ext)
	}
	stem, ext = StemAndExt("noext")
	if stem != "noext" || ext != "" {
		t.Errorf("StemAndExt(noext) = %q,%q", stem, ext)
	}
}
