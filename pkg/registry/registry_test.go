package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fsmview/pkg/domain"
	"github.com/aretw0/fsmview/pkg/fsm"
	"github.com/aretw0/fsmview/pkg/registry"
)

func TestRegistry(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("title", "text/plain", func(_ context.Context, res *fsm.Result) ([]byte, error) {
		return []byte(res.Graph.Title), nil
	})
	r.Register("broken", "text/plain", func(context.Context, *fsm.Result) ([]byte, error) {
		return nil, errors.New("boom")
	})

	res := &fsm.Result{Graph: &domain.Graph{Title: "Demo"}}

	out, ct, err := r.Render(context.Background(), "title", res)
	require.NoError(t, err)
	assert.Equal(t, "Demo", string(out))
	assert.Equal(t, "text/plain", ct)

	_, _, err = r.Render(context.Background(), "broken", res)
	assert.ErrorContains(t, err, "render broken: boom")

	_, _, err = r.Render(context.Background(), "nope", res)
	assert.ErrorIs(t, err, registry.ErrUnknownFormat)

	assert.Equal(t, []string{"broken", "title"}, r.Formats())
}

func TestRegistry_Overwrite(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("x", "a", nil)
	r.Register("x", "b", nil)

	rn, err := r.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, "b", rn.ContentType)
}
