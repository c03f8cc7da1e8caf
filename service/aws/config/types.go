package awsconfig

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

type service struct{}

// Options selects the profile and retry policy for AWS clients
type Options struct {
	Region      string
	Profile     string
	MaxAttempts int
	MaxBackoff  time.Duration
}

type ConfigService interface {
	GetAWSCfg(ctx context.Context, opts Options) (aws.Config, error)
}
