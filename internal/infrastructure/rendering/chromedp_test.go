package rendering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromedpConverter_Defaults(t *testing.T) {
	converter, err := NewChromedpConverter(nil)
	require.NoError(t, err)
	defer converter.Close()

	assert.Equal(t, defaultChromeTimeout, converter.config.DefaultTimeout)
	assert.NotNil(t, converter.allocCtx)
}

func TestNewChromedpConverter_CustomTimeout(t *testing.T) {
	converter, err := NewChromedpConverter(&ChromedpConfig{DefaultTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer converter.Close()

	assert.Equal(t, 5*time.Second, converter.config.DefaultTimeout)
}

func TestRender_NilRequest(t *testing.T) {
	converter, err := NewChromedpConverter(nil)
	require.NoError(t, err)
	defer converter.Close()

	_, err = converter.Render(context.Background(), nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestRender_EmptyHTML(t *testing.T) {
	converter, err := NewChromedpConverter(nil)
	require.NoError(t, err)
	defer converter.Close()

	_, err = converter.Render(context.Background(), &RenderRequest{HTML: "   \n\t"})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestConvert_EmptyHTML(t *testing.T) {
	converter, err := NewChromedpConverter(nil)
	require.NoError(t, err)
	defer converter.Close()

	_, err = converter.Convert(context.Background(), "", "Reçu")
	require.Error(t, err)
}

func TestBuildCompleteHTML(t *testing.T) {
	tests := []struct {
		name string
		req  *RenderRequest
		want string
	}{
		{
			name: "full document passes through",
			req:  &RenderRequest{HTML: "<!DOCTYPE html><html><body>x</body></html>"},
			want: "<!DOCTYPE html><html><body>x</body></html>",
		},
		{
			name: "html tag passes through",
			req:  &RenderRequest{HTML: "<HTML><body>x</body></HTML>"},
			want: "<HTML><body>x</body></HTML>",
		},
		{
			name: "fragment gets wrapped",
			req:  &RenderRequest{HTML: "<p>hello</p>", Title: "Reçu"},
			want: `<!DOCTYPE html><html><head><meta charset="UTF-8"><title>Reçu</title></head><body><p>hello</p></body></html>`,
		},
		{
			name: "fragment without title",
			req:  &RenderRequest{HTML: "<p>hello</p>"},
			want: `<!DOCTYPE html><html><head><meta charset="UTF-8"></head><body><p>hello</p></body></html>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildCompleteHTML(tt.req))
		})
	}
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError(ErrCodeRenderFailed, "rendering broke", cause)

	assert.Equal(t, "rendering broke: boom", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))

	bare := NewRenderError(ErrCodeRenderTimeout, "timed out", nil)
	assert.Equal(t, "timed out", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}

func TestClose_Idempotent(t *testing.T) {
	converter, err := NewChromedpConverter(nil)
	require.NoError(t, err)

	assert.NoError(t, converter.Close())
	assert.NoError(t, converter.Close())
}
