package timer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/brewfocus/internal/domain"
)

func TestBellNotifier_WritesBell(t *testing.T) {
	var buf bytes.Buffer
	n := NewBellNotifier(&buf)

	require.NoError(t, n.Notify(context.Background(), domain.PhaseFocus))
	require.NoError(t, n.Notify(context.Background(), domain.PhaseShortBreak))

	assert.Equal(t, "\a\a", buf.String())
}

func TestBellNotifier_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	n := NewBellNotifier(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, n.Notify(ctx, domain.PhaseFocus), context.Canceled)
	assert.Empty(t, buf.String())
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.Notify(context.Background(), domain.PhaseCustom))
}
