package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
)

type fakeS3 struct {
	headErr   error
	createErr error
	putErr    error
	created   []string
	put       *s3.PutObjectInput
	body      string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, aws.ToString(in.Bucket))
	return &s3.CreateBucketOutput{}, nil
}

func withFakeS3(t *testing.T, fake *fakeS3) *s3.Options {
	t.Helper()
	opts := &s3.Options{}
	orig := newS3ClientFromConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(opts)
		}
		return fake
	}
	t.Cleanup(func() { newS3ClientFromConfig = orig })
	return opts
}

var s3Cfg = Config{
	Backend:   BackendS3,
	Endpoint:  "http://minio:9000",
	Region:    "us-east-1",
	AccessKey: "admin",
	SecretKey: "secret",
	Bucket:    "certificates",
}

func TestNewS3Storage_ConfiguresClient(t *testing.T) {
	fake := &fakeS3{}
	opts := withFakeS3(t, fake)

	s, err := NewS3Storage(context.Background(), s3Cfg, logging.Nop{})
	require.NoError(t, err)

	assert.Equal(t, "http://minio:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
	assert.Empty(t, fake.created, "existing bucket is not recreated")
	assert.Equal(t, "http://minio:9000/certificates/k.pdf", s.PublicURL("k.pdf"))
}

func TestNewS3Storage_CreatesMissingBucket(t *testing.T) {
	fake := &fakeS3{headErr: errors.New("NotFound")}
	withFakeS3(t, fake)

	_, err := NewS3Storage(context.Background(), s3Cfg, logging.Nop{})
	require.NoError(t, err)
	assert.Equal(t, []string{"certificates"}, fake.created)
}

func TestNewS3Storage_BucketCreateFails(t *testing.T) {
	fake := &fakeS3{headErr: errors.New("NotFound"), createErr: errors.New("AccessDenied")}
	withFakeS3(t, fake)

	_, err := NewS3Storage(context.Background(), s3Cfg, logging.Nop{})
	assert.Error(t, err)
}

func TestNewS3Storage_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("bad profile")
	}
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	_, err := NewS3Storage(context.Background(), s3Cfg, logging.Nop{})
	assert.ErrorContains(t, err, "bad profile")
}

func TestS3Storage_Upload(t *testing.T) {
	fake := &fakeS3{}
	s := newS3Storage(fake, s3Cfg, logging.Nop{})

	err := s.Upload(context.Background(), "1700-cert.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "certificates", aws.ToString(fake.put.Bucket))
	assert.Equal(t, "1700-cert.pdf", aws.ToString(fake.put.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fake.put.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(fake.put.ContentLength))
	assert.Equal(t, "%PDF", fake.body)
}

func TestS3Storage_UploadError(t *testing.T) {
	fake := &fakeS3{putErr: errors.New("AccessDenied")}
	s := newS3Storage(fake, s3Cfg, logging.Nop{})

	err := s.Upload(context.Background(), "k", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, common.ErrorUploadFailed)
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestS3Storage_PublicURLPrefersPublicBase(t *testing.T) {
	cfg := s3Cfg
	cfg.PublicBaseURL = "https://files.example"
	s := newS3Storage(&fakeS3{}, cfg, logging.Nop{})
	assert.Equal(t, "https://files.example/certificates/k", s.PublicURL("k"))
}
