package cloudwriter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3StoreRoundTrip(t *testing.T) {
	api := &fakeS3{objects: map[string][]byte{}}
	store := NewS3StoreWithClient(api)
	ctx := context.Background()

	w, err := store.NewWriter(ctx, "menus", "r1/items.parquet")
	require.NoError(t, err)
	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("..."))
	require.NoError(t, err)
	assert.Empty(t, api.objects, "nothing is uploaded before Close")
	require.NoError(t, w.Close())

	data, err := store.ReadObject(ctx, "menus", "r1/items.parquet")
	require.NoError(t, err)
	assert.Equal(t, "PAR1...", string(data))

	_, err = store.ReadObject(ctx, "menus", "missing")
	assert.ErrorContains(t, err, "s3://menus/missing")
}

func TestS3WriterCloseError(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{objects: map[string][]byte{}, putErr: errors.New("denied")})
	w, err := store.NewWriter(context.Background(), "b", "k")
	require.NoError(t, err)
	assert.ErrorContains(t, w.Close(), "denied")
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	w, err := m.NewWriter(context.Background(), "b", "a.txt")
	require.NoError(t, err)
	_, _ = w.Write([]byte("hello"))
	require.NoError(t, w.Close())
	m.Put("b", "0.txt", []byte("x"))

	assert.Equal(t, []string{"b/0.txt", "b/a.txt"}, m.Keys())
	data, err := m.ReadObject(context.Background(), "b", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
