package kvgrid_test

import (
	"context"
	"errors"
	"testing"

	kvgrid "github.com/kvgrid/kvgrid-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testValue struct {
	Name  string
	Count int
}

func Test_TypedSetGet_JSON(t *testing.T) {
	cl, _ := setupServer(t)
	ctx := context.Background()

	want := testValue{Name: "n", Count: 42}
	require.NoError(t, kvgrid.Set(ctx, cl, "typed", want))

	got, err := kvgrid.Get[testValue](ctx, cl, "typed")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func Test_TypedGet_DecodeError(t *testing.T) {
	cl, _ := setupServer(t)
	ctx := context.Background()

	require.NoError(t, cl.Set(ctx, "raw", "definitely not json"))

	_, err := kvgrid.Get[testValue](ctx, cl, "raw")

	require.Error(t, err)
	assert.True(t, errors.As(err, &kvgrid.DecodeError{}))
}

func Test_TypedGet_KeyNotFound(t *testing.T) {
	cl, _ := setupServer(t)

	_, err := kvgrid.Get[testValue](context.Background(), cl, "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, kvgrid.KeyNotFoundError{Key: "missing"}))
}

func Test_TypedSetGet_Gob(t *testing.T) {
	_, srv := setupServer(t)

	cfg, err := kvgrid.NewConfigWith(srv.URL, testToken)
	require.NoError(t, err)

	cl, err := kvgrid.NewClient(cfg, kvgrid.WithCodec(kvgrid.GobCodec))
	require.NoError(t, err)

	ctx := context.Background()
	want := testValue{Name: "gobbed", Count: 7}

	require.NoError(t, kvgrid.Set(ctx, cl, "typed_gob", want))

	got, err := kvgrid.Get[testValue](ctx, cl, "typed_gob")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func Test_GobCodec_RejectsGarbage(t *testing.T) {
	var v testValue
	err := kvgrid.GobCodec.Unmarshal([]byte("%%% not base64 %%%"), &v)

	require.Error(t, err)
}
