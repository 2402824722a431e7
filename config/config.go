// Package config loads the YAML configuration shared by the CLI commands.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bububa/atomic-sms/components/notification"
	"github.com/bububa/atomic-sms/components/segmenter"
	"github.com/bububa/atomic-sms/components/segmenter/splitter"
)

// Dispatch configures message delivery
type Dispatch struct {
	// Interval is the pause between two parts sent to one recipient
	Interval time.Duration `yaml:"interval" validate:"gte=0"`
	// Concurrency is the number of recipients served in parallel
	Concurrency int `yaml:"concurrency" validate:"gte=1"`
	// Retries is the number of retries of a failed part
	Retries int `yaml:"retries" validate:"gte=0"`
	// History is the number of receipts the server keeps; 0 keeps all
	History int `yaml:"history" validate:"gte=0"`
}

// Server configures the HTTP API
type Server struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
	// ShutdownTimeout bounds the graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// S3 configures the client used for s3:// message bodies
type S3 struct {
	Region string `yaml:"region"`
	// Endpoint overrides the AWS endpoint, for S3 compatible stores
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
	// Profile selects a profile of the shared AWS config files
	Profile string `yaml:"profile"`
	// Anonymous sends unsigned requests, for public buckets
	Anonymous bool `yaml:"anonymous"`
}

type Config struct {
	// Limit is the maximum part length; 0 lets auto_encoding decide
	Limit    int    `yaml:"limit" validate:"gte=0"`
	Splitter string `yaml:"splitter" validate:"omitempty,oneof=sentences words phrases graphemes punctuation"`
	Counter  string `yaml:"counter"`
	// Auto picks the GSM-7 or UCS-2 limits and counter from the text
	Auto bool `yaml:"auto_encoding"`
	// Content is the format of message bodies: auto, html, markdown, text, pdf or docx
	Content string `yaml:"content" validate:"omitempty,oneof=auto html markdown text pdf docx"`
	// Password opens encrypted pdf bodies and xlsx recipient lists
	Password string   `yaml:"password"`
	Dispatch Dispatch `yaml:"dispatch"`
	Server   Server   `yaml:"server"`
	S3       S3       `yaml:"s3"`
}

// Default returns the configuration used without a config file
func Default() *Config {
	return &Config{
		Limit:    segmenter.DefaultLimit,
		Splitter: splitter.SentencesSplitter,
		Counter:  segmenter.CounterRunes,
		Content:  "auto",
		Dispatch: Dispatch{
			Interval:    notification.DefaultInterval,
			Concurrency: notification.DefaultConcurrency,
			History:     1000,
		},
		Server: Server{
			Addr:            "localhost:8080",
			ShutdownTimeout: 10 * time.Second,
		},
		S3: S3{
			Region: "us-east-1",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// AWSConfig resolves the AWS configuration through the SDK default chain:
// environment, shared config files, then container and instance roles.
func (c S3) AWSConfig(ctx context.Context) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
	}
	if c.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(c.Profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("load aws config: %w", err)
	}
	if c.Anonymous {
		cfg.Credentials = aws.AnonymousCredentials{}
	}
	return cfg, nil
}

// NewClient returns an S3 client for the resolved AWS configuration
func (c S3) NewClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := c.AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
