package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

const (
	defaultProbeTimeout = 10 * time.Second
	defaultS3Region     = "us-east-1"
)

// ProbeResult reports a connectivity check. Supported is false for provider
// types that cannot be checked from the server.
type ProbeResult struct {
	Supported bool   `json:"supported"`
	OK        bool   `json:"ok"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
}

// Prober checks that a provider is reachable with its configured credentials.
type Prober interface {
	Probe(ctx context.Context, p *Provider) (*ProbeResult, error)
}

// Probers dispatches to a prober per provider type.
type Probers map[ProviderType]Prober

// NewProbers returns the default probers.
func NewProbers() Probers {
	return Probers{ProviderS3: NewS3Prober(defaultProbeTimeout)}
}

func (ps Probers) Probe(ctx context.Context, p *Provider) (*ProbeResult, error) {
	prober, ok := ps[p.Type]
	if !ok {
		return &ProbeResult{Supported: false}, nil
	}
	return prober.Probe(ctx, p)
}

type headBucketAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Prober issues a HeadBucket request against the configured bucket.
type S3Prober struct {
	timeout   time.Duration
	newClient func(ctx context.Context, p *Provider) (headBucketAPI, error)
}

func NewS3Prober(timeout time.Duration) *S3Prober {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &S3Prober{timeout: timeout, newClient: newS3Client}
}

func newS3Client(ctx context.Context, p *Provider) (headBucketAPI, error) {
	region := p.ConfigString("region")
	if region == "" {
		region = defaultS3Region
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.ConfigString("accessKeyId"),
			p.ConfigString("secretAccessKey"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := p.ConfigString("endpoint")
	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// S3-compatible services generally need path-style URLs
			o.UsePathStyle = true
		}
	}), nil
}

func (sp *S3Prober) Probe(ctx context.Context, p *Provider) (*ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, sp.timeout)
	defer cancel()

	client, err := sp.newClient(ctx, p)
	if err != nil {
		return nil, err
	}

	bucket := p.ConfigString("bucket")
	start := time.Now()
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	result := &ProbeResult{Supported: true, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		log.Warnf("[Storage] Bucket %s of provider %s not accessible: %v", bucket, p.ID, err)
		result.Message = fmt.Sprintf("bucket %s not accessible: %v", bucket, err)
		return result, nil
	}
	result.OK = true
	return result, nil
}
