package iter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type stringBody struct {
	reader *strings.Reader
}

func (self *stringBody) Read(ctx context.Context, size int32) ([]byte, error) {
	buf := make([]byte, size)
	n, err := self.reader.Read(buf)
	return buf[:n], err
}

func (self *stringBody) Close(ctx context.Context) error {
	return nil
}

func TestUnicodeFileBody(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body := &stringBody{reader: strings.NewReader("hé\n✓")}
	points := NewUnicodeFileBody(ctx, body)

	expected := []rune{'h', 'é', '\n', '✓'}
	for _, r := range expected {
		p := points.Next(ctx)
		require.True(t, p.IsPresent())
		require.Equal(t, r, rune(p.Value()))
	}
	require.False(t, points.Next(ctx).IsPresent())
	require.NoError(t, points.Close(ctx))
}
