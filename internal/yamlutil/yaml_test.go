package yamlutil_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/alnah/go-md2zim/internal/yamlutil"
)

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("valid mapping", func(t *testing.T) {
		t.Parallel()
		var m map[string]any
		if err := yamlutil.Unmarshal([]byte("title: Test\ntags: [a, b]\n"), &m); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if m["title"] != "Test" {
			t.Errorf("title = %v, want Test", m["title"])
		}
	})

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()
		var m map[string]any
		if err := yamlutil.Unmarshal(nil, &m); !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want ErrNilData", err)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()
		if err := yamlutil.Unmarshal([]byte("a: 1"), nil); !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("error = %v, want ErrNilDestination", err)
		}
	})

	t.Run("oversized input", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("a"), yamlutil.MaxInputSize+1)
		var m map[string]any
		if err := yamlutil.Unmarshal(data, &m); !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("error = %v, want ErrInputTooLarge", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		var m map[string]any
		if err := yamlutil.Unmarshal([]byte("title: [unclosed\n"), &m); err == nil {
			t.Error("Unmarshal accepted malformed YAML")
		}
	})
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	type meta struct {
		Title string `yaml:"title"`
	}

	var m meta
	if err := yamlutil.UnmarshalStrict([]byte("title: Test\n"), &m); err != nil {
		t.Fatalf("UnmarshalStrict: %v", err)
	}
	if err := yamlutil.UnmarshalStrict([]byte("title: Test\nbogus: 1\n"), &m); err == nil {
		t.Error("UnmarshalStrict accepted an unknown field")
	}
}
