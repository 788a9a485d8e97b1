// Package publish 将生成的文档产物上传到S3兼容的对象存储
package publish

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/zzliekkas/autodoc/config"
)

// ErrNoBucket 未配置存储桶
var ErrNoBucket = errors.New("未配置S3存储桶")

// Uploader 上传产物，返回已上传的对象键
type Uploader interface {
	Upload(ctx context.Context, files []string) ([]string, error)
}

// ObjectPutter S3客户端中上传所需的部分
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader 上传到S3
type S3Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3 根据配置创建S3上传器。未配置访问密钥时使用默认凭证链
func NewS3(ctx context.Context, cfg config.S3Settings) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("加载S3配置失败: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewS3WithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3WithClient 使用已有客户端创建上传器
func NewS3WithClient(client ObjectPutter, bucket, prefix string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, prefix: prefix}
}

// Key 返回文件对应的对象键
func (u *S3Uploader) Key(file string) string {
	return path.Join(u.prefix, filepath.Base(file))
}

// Upload 逐个上传文件，单个失败不影响其他文件，所有错误合并返回
func (u *S3Uploader) Upload(ctx context.Context, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	var errs []error

	for _, file := range files {
		key := u.Key(file)
		if err := u.put(ctx, file, key); err != nil {
			errs = append(errs, fmt.Errorf("上传%s失败: %w", filepath.Base(file), err))
			continue
		}
		keys = append(keys, key)
	}
	return keys, errors.Join(errs...)
}

func (u *S3Uploader) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if contentType := mime.TypeByExtension(filepath.Ext(file)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err = u.client.PutObject(ctx, input)
	return err
}
