package minio

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

type fakeObjectAPI struct {
	objects map[string][]byte
	removed []string
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: make(map[string][]byte)}
}

func (f *fakeObjectAPI) BucketExists(context.Context, string) (bool, error) { return true, nil }

func (f *fakeObjectAPI) MakeBucket(context.Context, string, miniogo.MakeBucketOptions) error {
	return nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, _ string, object string, reader io.Reader, _ int64, _ miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return miniogo.UploadInfo{}, err
	}
	f.objects[object] = data
	return miniogo.UploadInfo{Key: object, Size: int64(len(data))}, nil
}

func (f *fakeObjectAPI) PresignedGetObject(_ context.Context, bucket, object string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return url.Parse("https://storage.local/" + bucket + "/" + object + "?signature=abc")
}

func (f *fakeObjectAPI) RemoveObject(_ context.Context, _ string, object string, _ miniogo.RemoveObjectOptions) error {
	f.removed = append(f.removed, object)
	delete(f.objects, object)
	return nil
}

func TestObjectKeySanitizesFilename(t *testing.T) {
	certID := common.NewID()

	assert.Equal(t, "certificates/"+certID.String()+"/scan.pdf", objectKey(certID, "scan.pdf"))
	assert.Equal(t, "certificates/"+certID.String()+"/passwd", objectKey(certID, "../../etc/passwd"))
	assert.Equal(t, "certificates/"+certID.String()+"/scan.pdf", objectKey(certID, `C:\docs\scan.pdf`))
	assert.Equal(t, "certificates/"+certID.String()+"/document", objectKey(certID, ""))
}

func TestPutAndPresignedGet(t *testing.T) {
	api := newFakeObjectAPI()
	store := newDocumentStoreWithAPI(api, "docs")
	certID := common.NewID()

	key, err := store.Put(context.Background(), certID, "scan.pdf", "application/pdf", 4, strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Contains(t, key, certID.String())
	assert.Equal(t, []byte("%PDF"), api.objects[key])

	u, err := store.PresignedGet(context.Background(), key, time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, key)
	assert.Contains(t, u, "signature=")
}

func TestRemove(t *testing.T) {
	api := newFakeObjectAPI()
	store := newDocumentStoreWithAPI(api, "docs")
	certID := common.NewID()

	key, err := store.Put(context.Background(), certID, "scan.pdf", "application/pdf", 4, strings.NewReader("%PDF"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(context.Background(), key))
	assert.Equal(t, []string{key}, api.removed)
	assert.NotContains(t, api.objects, key)
}
