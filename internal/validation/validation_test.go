package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteInput struct {
	Title string   `json:"title" validate:"min=1,max=5" errmsg:"min=Title is required;max=Title too long"`
	Tags  []string `json:"tags" validate:"max=2" errmsg:"Maximum 2 tags"`
}

func (n *noteInput) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	n.Tags = TrimStrings(n.Tags)
}

type pageQuery struct {
	Tag  string `schema:"tag"`
	Page int    `schema:"page" validate:"min=1"`
}

func newJSONRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func violations(t *testing.T, err error) []Violation {
	t.Helper()
	var vErr *Error
	require.True(t, errors.As(err, &vErr), "expected *Error, got %v", err)
	return vErr.Violations
}

func TestDecodeJSON_Valid(t *testing.T) {
	v := New()
	var in noteInput

	err := v.DecodeJSON(newJSONRequest(`{"title":"  hi  ","tags":[" a ","b"]}`), &in)
	require.NoError(t, err)
	assert.Equal(t, "hi", in.Title)
	assert.Equal(t, []string{"a", "b"}, in.Tags)
}

func TestDecodeJSON_DefaultsTags(t *testing.T) {
	v := New()
	var in noteInput

	require.NoError(t, v.DecodeJSON(newJSONRequest(`{"title":"x"}`), &in))
	assert.NotNil(t, in.Tags)
	assert.Empty(t, in.Tags)
}

func TestDecodeJSON_FieldViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Violation
	}{
		{
			name: "whitespace-only title is empty after trim",
			body: `{"title":"   "}`,
			want: []Violation{{Path: "title", Message: "Title is required"}},
		},
		{
			name: "title too long",
			body: `{"title":"abcdef"}`,
			want: []Violation{{Path: "title", Message: "Title too long"}},
		},
		{
			name: "too many tags uses bare message",
			body: `{"title":"ok","tags":["a","b","c"]}`,
			want: []Violation{{Path: "tags", Message: "Maximum 2 tags"}},
		},
		{
			name: "wrong json type",
			body: `{"title":42}`,
			want: []Violation{{Path: "title", Message: "Expected string"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in noteInput
			err := New().DecodeJSON(newJSONRequest(tt.body), &in)
			assert.Equal(t, tt.want, violations(t, err))
		})
	}
}

func TestDecodeJSON_MalformedBody(t *testing.T) {
	for _, body := range []string{"", "{", "not json"} {
		var in noteInput
		err := New().DecodeJSON(newJSONRequest(body), &in)
		assert.ErrorIs(t, err, ErrInvalidBody, "body %q", body)
	}
}

func TestDecodeQuery(t *testing.T) {
	v := New()

	q := pageQuery{Page: 1}
	require.NoError(t, v.DecodeQuery(url.Values{"tag": {"go"}, "other": {"x"}}, &q))
	assert.Equal(t, "go", q.Tag)
	assert.Equal(t, 1, q.Page, "absent key keeps default")

	q = pageQuery{Page: 1}
	require.NoError(t, v.DecodeQuery(url.Values{"page": {"3"}}, &q))
	assert.Equal(t, 3, q.Page)
}

func TestDecodeQuery_Violations(t *testing.T) {
	v := New()

	q := pageQuery{Page: 1}
	err := v.DecodeQuery(url.Values{"page": {"abc"}}, &q)
	assert.Equal(t, []Violation{{Path: "page", Message: "Expected number"}}, violations(t, err))

	q = pageQuery{Page: 1}
	err = v.DecodeQuery(url.Values{"page": {"0"}}, &q)
	assert.Equal(t, []Violation{{Path: "page", Message: "Must be greater than or equal to 1"}}, violations(t, err))
}

func TestError_Message(t *testing.T) {
	err := &Error{Violations: []Violation{{Path: "a", Message: "bad"}, {Path: "b", Message: "worse"}}}
	assert.Equal(t, "validation failed: a: bad; b: worse", err.Error())
}
