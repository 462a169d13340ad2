// Package asset - Test S3Store với SDK giả lập (không cần object store thật).
package asset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	lastInput *s3manager.UploadInput
	err       error
}

func (f *fakeUploader) UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &s3manager.UploadOutput{}, nil
}

type fakeDeleter struct {
	lastKey string
	err     error
}

func (f *fakeDeleter) DeleteObjectWithContext(ctx aws.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.lastKey = aws.StringValue(input.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStore(uploader s3Uploader, deleter s3Deleter) *S3Store {
	return &S3Store{
		uploader: uploader,
		client:   deleter,
		endpoint: "https://store.example.com",
		bucket:   "media",
		folder:   "assets",
	}
}

func TestUpload(t *testing.T) {
	uploader := &fakeUploader{}
	store := newTestStore(uploader, &fakeDeleter{})

	url, key, err := store.Upload(context.Background(), []byte("data"), "banner.jpg", "image/jpeg")
	require.NoError(t, err)

	// Key = folder/uuid_filename để không ghi đè asset cũ
	assert.True(t, strings.HasPrefix(key, "assets/"), "key phải nằm trong folder cấu hình, nhận được %s", key)
	assert.True(t, strings.HasSuffix(key, "_banner.jpg"), "key phải giữ tên file gốc, nhận được %s", key)
	assert.Equal(t, "https://store.example.com/media/"+key, url)

	require.NotNil(t, uploader.lastInput)
	assert.Equal(t, "media", aws.StringValue(uploader.lastInput.Bucket))
	assert.Equal(t, "image/jpeg", aws.StringValue(uploader.lastInput.ContentType))
}

func TestUpload_UniqueKeys(t *testing.T) {
	store := newTestStore(&fakeUploader{}, &fakeDeleter{})

	_, key1, err := store.Upload(context.Background(), []byte("a"), "banner.jpg", "image/jpeg")
	require.NoError(t, err)
	_, key2, err := store.Upload(context.Background(), []byte("b"), "banner.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2, "hai lần upload cùng tên file phải ra hai key khác nhau")
}

func TestUpload_Error(t *testing.T) {
	store := newTestStore(&fakeUploader{err: errors.New("connection refused")}, &fakeDeleter{})

	_, _, err := store.Upload(context.Background(), []byte("data"), "banner.jpg", "image/jpeg")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	deleter := &fakeDeleter{}
	store := newTestStore(&fakeUploader{}, deleter)

	err := store.Delete(context.Background(), "assets/abc_banner.jpg")
	require.NoError(t, err)
	assert.Equal(t, "assets/abc_banner.jpg", deleter.lastKey)
}

func TestDelete_MissingKeyIsIdempotent(t *testing.T) {
	// Key không tồn tại vẫn phải trả thành công
	cases := []error{
		awserr.New(s3.ErrCodeNoSuchKey, "key does not exist", nil),
		awserr.New("NotFound", "not found", nil),
	}

	for _, cause := range cases {
		store := newTestStore(&fakeUploader{}, &fakeDeleter{err: cause})
		assert.NoError(t, store.Delete(context.Background(), "assets/gone.jpg"))
	}
}

func TestDelete_OtherErrorsPropagate(t *testing.T) {
	store := newTestStore(&fakeUploader{}, &fakeDeleter{err: awserr.New("AccessDenied", "denied", nil)})
	assert.Error(t, store.Delete(context.Background(), "assets/abc.jpg"))
}
